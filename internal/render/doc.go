// Package render rasterises review output: heatmaps built from aggregated
// grid cells and overviews of the drawn shapes, optionally composited over the
// reference map the respondents drew on.
//
// # Coordinate System
//
// Inputs are in canvas units, with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Output images are scaled uniformly from
// the canvas to the requested pixel width; the pixel height follows from the
// canvas aspect ratio.
//
// # Colour Representation
//
// Colours are reported in several formats:
//   - Hex: "#RRGGBB" (alpha excluded)
//   - RGB / RGBA: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Rendering functions are stateless and
// may be called concurrently.
package render
