// Package svf provides a topology-preserving-transform (TPT) state-variable
// filter stage.
//
// A [Stage] holds one set of coefficients shared by up to [core.MaxChannels]
// channels, each with its own two integrator states. The stage produces
// low-pass, high-pass and band-pass outputs from the same structure; the
// [Mode] passed to [Stage.ProcessSample] selects which one is returned.
//
// Coefficients are derived from cutoff and Q with a prewarped bilinear
// transform, so the stage is exactly equivalent to the biquad returned by
// [Stage.Coefficients]. That equivalence is what the analytic response
// helpers rely on.
package svf
