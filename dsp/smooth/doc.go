// Package smooth provides sample-accurate linear parameter ramps.
//
// A [Value] turns a stepped target (a host automation write, a knob move)
// into a ramp that reaches the target after a fixed number of samples.
// Ramps never overshoot and a new target always starts from the current
// value, so a control change can never produce a discontinuity.
//
// Value is owned by the audio thread. Cross-thread delivery of targets is
// the job of the parameter store; the audio thread reads the store once
// per block and forwards the result to SetTarget.
package smooth
