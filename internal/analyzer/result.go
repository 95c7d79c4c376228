package analyzer

// HSV is a color in the 8-bit HSV convention.
//
// Hue is stored at half resolution so it fits in a byte:
//   - H: 0-179 (multiply by 2 for degrees on the color wheel)
//   - S: 0-255 (0=gray, 255=fully saturated)
//   - V: 0-255 (0=black, 255=full brightness)
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// RGB is a color with 8-bit components.
type RGB struct {
	R int `json:"r"` // Red component (0-255)
	G int `json:"g"` // Green component (0-255)
	B int `json:"b"` // Blue component (0-255)
}

// ColorResult is the outcome of analyzing one image.
//
// The three numeric representations always agree: RGB is HSVToRGB(HSV) and
// Hex is HexString(RGB).
type ColorResult struct {
	Name string `json:"name"` // Qualified color name, e.g. "Dark Brown" or "Gray"
	HSV  HSV    `json:"hsv"`  // Mean HSV of the sampling window
	RGB  RGB    `json:"rgb"`  // RGB equivalent of HSV
	Hex  string `json:"hex"`  // "#RRGGBB", uppercase
}

// Describe builds the full ColorResult for an HSV sample.
//
// The sample is clamped to valid ranges before it is classified and converted.
func Describe(sample HSV) ColorResult {
	sample = sample.Clamped()
	rgb := HSVToRGB(sample)
	return ColorResult{
		Name: ClassifyHSV(sample.H, sample.S, sample.V),
		HSV:  sample,
		RGB:  rgb,
		Hex:  HexString(rgb),
	}
}

// Valid reports whether every channel is within its 8-bit range.
func (c HSV) Valid() bool {
	return c.H >= 0 && c.H <= MaxHue &&
		c.S >= 0 && c.S <= 255 &&
		c.V >= 0 && c.V <= 255
}

// Clamped returns c with each channel limited to its valid range.
func (c HSV) Clamped() HSV {
	return HSV{
		H: clamp(c.H, 0, MaxHue),
		S: clamp(c.S, 0, 255),
		V: clamp(c.V, 0, 255),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
