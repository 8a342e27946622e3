// Package imaging provides the raster primitives the strip pipeline is built on.
//
// It defines Image, a pixel buffer paired with its horizontal and vertical
// resolution, and the operations the planner, compositor and mark renderer
// share: loading files at a resolution, cutting out the region of interest,
// and picking a readable mark colour for an arbitrary background.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Left/Top are inclusive and Left+Width/Top+Height exclusive
//
// Every Image produced here has its pixel origin at (0,0).
//
// # Physical Size
//
// Inches are always derived as pixels / DPI. An Image with a zero resolution
// is invalid input; loaders refuse to produce one.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Images returned from the
// cache are shared and must be treated as read-only; CutToSize always returns
// a fresh buffer that callers own.
//
// # Mark Colour
//
// AverageColor and ContrastColor implement the adaptive contrast rule used for
// cut marks: average the footprint, convert to HSL, flip lightness to 0 or 1,
// convert back and apply the configured alpha.
package imaging
