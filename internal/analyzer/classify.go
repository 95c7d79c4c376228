package analyzer

// Classification thresholds. These are empirically tuned; keep them exact.
const (
	grayMaxSaturation = 25
	blackMaxValue     = 50
	whiteMinValue     = 200

	brownMinHue        = 10
	brownMaxHue        = 25
	brownMaxValue      = 170 // exclusive
	brownMinSaturation = 50  // exclusive

	pinkMinHue        = 160
	pinkMaxHue        = 175
	pinkMinValue      = 150 // exclusive
	pinkMinSaturation = 40  // exclusive

	darkMaxValue  = 50  // exclusive
	lightMinValue = 200 // exclusive
)

// hueBand maps the degree range [low, high) to a base color name.
type hueBand struct {
	low, high int
	name      string
}

// hueBands partitions the 0-359 degree circle. Order matters only for
// readability; the bands do not overlap.
var hueBands = []hueBand{
	{0, 5, "Red"},
	{5, 15, "Red-Orange"},
	{15, 25, "Orange"},
	{25, 35, "Yellow-Orange"},
	{35, 45, "Yellow"},
	{45, 55, "Yellow-Green"},
	{55, 78, "Green"},
	{78, 90, "Teal"},
	{90, 110, "Cyan"},
	{110, 140, "Sky Blue"},
	{140, 160, "Blue"},
	{160, 170, "Blue-Purple"},
	{170, 190, "Purple"},
	{190, 330, "Magenta"},
	{330, 345, "Red"},
	{345, 360, "Red"},
}

// ClassifyHSV names an 8-bit HSV color.
//
// Rules are checked in order and the first match wins:
//  1. s <= 25 is achromatic: "Black" (v <= 50), "White" (v >= 200) or "Gray".
//  2. 10 <= h <= 25, v < 170, s > 50 is "<Shade> Brown".
//  3. 160 <= h <= 175, v > 150, s > 40 is "<Shade> Pink".
//  4. Otherwise hue = h*2 degrees is looked up in the band table and
//     returned as "<Shade> <Band>".
//
// Achromatic names never carry a shade qualifier.
func ClassifyHSV(h, s, v int) string {
	if s <= grayMaxSaturation {
		switch {
		case v <= blackMaxValue:
			return "Black"
		case v >= whiteMinValue:
			return "White"
		default:
			return "Gray"
		}
	}

	if h >= brownMinHue && h <= brownMaxHue && v < brownMaxValue && s > brownMinSaturation {
		return Shade(v) + " Brown"
	}
	if h >= pinkMinHue && h <= pinkMaxHue && v > pinkMinValue && s > pinkMinSaturation {
		return Shade(v) + " Pink"
	}

	return Shade(v) + " " + HueName(h*2)
}

// HueName returns the base color for a hue in degrees. Hues outside 0-359
// fall on the red ends of the circle.
func HueName(degrees int) string {
	for _, band := range hueBands {
		if degrees >= band.low && degrees < band.high {
			return band.name
		}
	}
	return "Red"
}

// Shade is the brightness qualifier for a value channel reading.
func Shade(v int) string {
	switch {
	case v < darkMaxValue:
		return "Dark"
	case v > lightMinValue:
		return "Light"
	default:
		return "Medium"
	}
}
