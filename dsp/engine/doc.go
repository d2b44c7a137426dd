// Package engine runs the real-time slope filter signal path.
//
// A [Processor] reads the parameter store once per block, smooths every
// parameter per sample, drives the four-stage filter chain (crossfading
// between slope settings while the slope parameter moves), applies the
// smoothed output gain and finally runs a peak limiter over the block.
//
// Lifecycle:
//
//	New -> Prepare -> Process... -> Release [-> Prepare -> Process...]
//
// Prepare and Release are control-plane calls and may log and allocate.
// Process never allocates, blocks or logs. The host must not call Prepare
// or Release concurrently with Process; parameter writes through the
// [param.Store] may happen at any time from one other goroutine.
package engine
