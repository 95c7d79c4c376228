package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// dataURLPattern captures the base64 payload of an image data URL.
var dataURLPattern = regexp.MustCompile(`(?s)^data:image/\w+;base64,(.+)`)

// dataURLPrefix marks a payload that should be parsed as a data URL rather
// than as raw container bytes.
const dataURLPrefix = "data:image/"

// DecodeError reports a payload that could not be turned into a PixelGrid.
//
// It is never retryable: the same input always fails the same way.
type DecodeError struct {
	Msg string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Msg, e.Err)
	}
	return "decode image: " + e.Msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeImage decodes either shape of payload the service layer receives.
//
// A payload beginning with "data:image/" is parsed as a data URL (see
// DecodeDataURL); anything else is treated as raw encoded image bytes, such as
// the body of an uploaded file.
//
// # Errors
//
//   - Returns *DecodeError if the payload is empty, its base64 portion is
//     invalid, the bytes are not a supported image container, or the decoded
//     image has zero area
func DecodeImage(payload []byte) (*PixelGrid, error) {
	if len(payload) == 0 {
		return nil, &DecodeError{Msg: "missing image data"}
	}
	if bytes.HasPrefix(payload, []byte(dataURLPrefix)) {
		return DecodeDataURL(string(payload))
	}
	return DecodeBytes(payload)
}

// DecodeDataURL decodes a string of the form data:image/<subtype>;base64,<payload>.
//
// When the prefix is absent the entire string is taken to be base64, which is
// what camera capture clients send when they strip the header themselves.
func DecodeDataURL(s string) (*PixelGrid, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &DecodeError{Msg: "missing image data"}
	}

	b64 := s
	if m := dataURLPattern.FindStringSubmatch(s); m != nil {
		b64 = m[1]
	}

	raw, err := decodeBase64(b64)
	if err != nil {
		return nil, &DecodeError{Msg: "invalid base64 payload", Err: err}
	}
	return DecodeBytes(raw)
}

// DecodeBytes decodes raw container bytes (PNG, JPEG, GIF, BMP, TIFF, WebP).
//
// No resizing, color correction, or EXIF orientation is applied.
func DecodeBytes(data []byte) (*PixelGrid, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Msg: "missing image data"}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Msg: "could not decode image", Err: err}
	}
	return FromImage(img)
}

// decodeBase64 accepts padded or unpadded standard base64 with embedded
// whitespace.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, fmt.Errorf("empty payload")
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return raw, nil
	}
	if rawUnpadded, rerr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rerr == nil {
		return rawUnpadded, nil
	}
	return nil, err
}
