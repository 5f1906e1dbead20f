// Package render streams an audio source through an effect into a sink,
// block by block, optionally appending a silent tail so echoes can decay.
package render
