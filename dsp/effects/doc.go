// Package effects provides the fixed-point audio effect variants used by the
// loopback pipeline.
//
// Every variant implements [Processor]: a frame-oriented, allocation-free
// transform over interleaved stereo transport cells. All per-sample
// arithmetic is Q15 with saturating operations; no variant allocates after
// Init, making Process safe to call under a hard per-frame time budget.
package effects
