// Package param defines the filter parameters, their metadata and the
// lock-free store through which a control thread hands values to the
// audio thread.
//
// The store holds one atomic word per parameter. It supports exactly one
// writer and one reader running concurrently; the reader takes a
// [Snapshot] once per block.
package param
