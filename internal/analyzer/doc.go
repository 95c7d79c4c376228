// Package analyzer names the dominant color at the center of a PixelGrid.
//
// Analysis is a single deterministic pass:
//  1. Convert every pixel to 8-bit HSV (H 0-179, S 0-255, V 0-255).
//  2. Take the square window of half width r around (width/2, height/2),
//     clamped to the image.
//  3. Average H, S and V independently over the window, truncating.
//  4. Classify the mean into a name such as "Light Sky Blue" or "Gray".
//  5. Convert the mean back to RGB and "#RRGGBB".
//
// Hue is averaged arithmetically, not on the circle, so a window straddling
// red (h near 0 and near 179) averages toward cyan.
//
// # Thread Safety
//
// All functions are pure. Concurrent calls on the same or different grids are
// safe because grids are only read.
package analyzer
