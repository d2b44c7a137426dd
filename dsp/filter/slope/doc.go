// Package slope cascades state-variable stages into a filter with a
// selectable roll-off and crossfades between roll-offs while the slope
// parameter is moving.
//
// The slope parameter is smoothed as a continuous value in [0, 2]. While
// it sits between two integer positions, [Chain.ProcessSample] runs the
// stage cascade twice, once for each neighbouring stage count, and blends
// the results linearly. Both passes run on the same live stages, so the
// stages shared by both configurations advance twice per sample during a
// transition. This keeps a single filter state and avoids the restart
// transient a second, cold cascade would produce.
package slope
