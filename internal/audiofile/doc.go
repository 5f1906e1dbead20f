// Package audiofile reads and writes PCM audio files as normalized float
// frames.
//
// Sources decode WAV (8, 16, 24 and 32-bit integer PCM), FLAC and MP3 files and
// deliver frames into a buffer.Block. WAVSink encodes frames from a
// buffer.View as integer PCM, clipping to [-1, 1].
package audiofile
