// Package imaging decodes image payloads into PixelGrids for color analysis.
//
// Two payload shapes are accepted:
//   - A data URL, "data:image/<subtype>;base64,<payload>", as sent by browser
//     camera captures. A string without the prefix is decoded as bare base64.
//   - Raw encoded image bytes, as read from an uploaded file.
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP and TIFF are registered through
// github.com/disintegration/imaging; WebP is registered by importing
// golang.org/x/image/webp. The container format is detected from the bytes
// themselves. File extensions and MIME types are never consulted here.
//
// # Channel Order
//
// Every PixelGrid stores R, G, B in that order. Alpha is discarded after
// un-premultiplying, so fully transparent pixels keep whatever color the
// encoder stored for them when the source is non-premultiplied.
//
// # Error Handling
//
// All failures are returned as *DecodeError. No partial grid is returned and
// nothing is logged; translating the error for users is the caller's job.
//
// # Thread Safety
//
// Decoding is stateless. Each call returns a fresh grid owned by the caller.
// GridCache is the exception: grids it returns are shared between callers and
// must be treated as read-only.
package imaging
