// Package effects provides real-time effect kernels that satisfy the
// effectchain.Effect lifecycle.
//
// DigitalDelay is a multi-channel echo built on power-of-two circular delay
// lines. Each channel owns its line while a single read cursor is shared by
// all of them. The delayed signal is fed back into the line scaled by the
// feedback amount and mixed with the dry input:
//
//	out = dry*in + wet*delayed
//
// The fractional part of the delay is applied when writing, by splitting each
// sample across two adjacent slots. The second slot is overwritten by the next
// sample's first write, so for a fractional delay only the (1-frac) share of
// the input survives in the line. Delay time changes take effect on the next
// Configure call; gains and feedback apply to the next processed sample.
//
// ProcessInPlace does not allocate. Configure sizes all storage.
package effects
