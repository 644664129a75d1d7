// Package imaging holds the pixel-level helpers shared by the marker
// registry, the matcher and the MCP tools.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left, X increasing
// rightward and Y increasing downward. Regions are geometry.Rect values whose
// Max corner is exclusive.
//
// # Contents
//
//   - ImageCache: path-keyed cache of decoded image files (PNG, JPEG, GIF,
//     BMP, WebP). Markers are loaded through it and evicted on reload.
//   - Grid: a dense RGB copy of an image with alpha dropped. The matcher
//     compares Grids byte for byte.
//   - CropInner, Crop and EncodePNG: cropping and base64 PNG output.
//   - Annotate: outlines located regions on a copy of a frame.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Grids are immutable once built.
package imaging
