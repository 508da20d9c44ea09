// Package graphics is a CPU-side stand-in for an engine graphics API.
//
// It provides the pieces a serialized texture needs from its host: texture
// allocation with a pixel format and mip chain, a readability flag that
// separates CPU-accessible textures from device-only ones, device-side
// copies, PNG encoding and loading, and sprites over texture regions.
//
// # Readability
//
// Textures created by a Device start readable. Apply(_, true) makes a
// texture device-only: Pixels, SetPixels, Device.EncodePNG and
// Device.LoadImage then fail with ErrNotReadable, while Device.CopyTexture
// still works. This mirrors an engine upload that discards the CPU copy.
//
// # Mip levels
//
// A requested mip count below zero allocates the full chain, zero allocates
// only the base level. Lower levels are regenerated by Apply(true, _) with
// nearest-neighbour sampling for point-filtered textures and bilinear
// sampling otherwise.
//
// # Thread Safety
//
// Textures and sprites are not safe for concurrent mutation. A Device holds
// only immutable settings and may be shared.
package graphics
