// Package effectchain defines the lifecycle contract shared by block-based
// effects and the infrastructure that hosts them uniformly: a serial Chain
// and a Registry of effect factories keyed by type name.
//
// The lifecycle is:
//
//	fx.Configure(sampleRate, blockSize) // off the real-time path; may allocate
//	fx.ProcessInPlace(view)             // once per audio callback block
//	fx.ClearHistory()                   // on stream restart or transport stop
//
// Calls on one effect must be serialized by the host.
package effectchain
