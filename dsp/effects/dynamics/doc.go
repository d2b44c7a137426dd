// Package dynamics provides the output safety limiter used by the slope
// filter engine.
//
// PeakLimiter is a zero-latency peak limiter with instant attack and an
// exponential release. Gain never exceeds the ceiling divided by the
// detected envelope, and the output is hard clamped to the ceiling so
// the limit holds for every sample.
package dynamics
