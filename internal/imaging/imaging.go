// Package imaging normalizes garment photos attached to records. Photos travel
// as base64 data URIs inside the record JSON, so every accepted photo is
// decoded, bounded to MaxDimension and re-encoded as a JPEG data URI.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension bounds the width and height of a stored photo.
const MaxDimension = 800

// JPEGQuality is the quality used when re-encoding.
const JPEGQuality = 80

// MaxInputBytes bounds the decoded size of an incoming photo.
const MaxInputBytes = 8 << 20

// MaxPixels bounds the pixel count declared by an incoming photo's header.
const MaxPixels = 40_000_000

var (
	ErrNotDataURI   = errors.New("image is not a base64 data URI")
	ErrUnsupported  = errors.New("unsupported image format (only JPEG and PNG accepted)")
	ErrTooLarge     = errors.New("image too large")
	acceptedFormats = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
	}
)

// Photo is a normalized JPEG photo.
type Photo struct {
	Data          []byte
	Width, Height int
}

// DataURI returns the photo as a data:image/jpeg;base64 URI.
func (p *Photo) DataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Normalize decodes raw JPEG or PNG bytes, downscales them to fit
// MaxDimension and re-encodes them as JPEG. The format is sniffed from the
// bytes, never taken from a declared MIME type.
func Normalize(raw []byte) (*Photo, error) {
	if len(raw) > MaxInputBytes {
		return nil, ErrTooLarge
	}
	if !acceptedFormats[http.DetectContentType(raw)] {
		return nil, ErrUnsupported
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxPixels {
		return nil, ErrTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// NormalizeDataURI runs Normalize on the payload of a base64 data URI and
// returns the resulting JPEG data URI. An empty uri is returned unchanged.
func NormalizeDataURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", nil
	}

	raw, err := decodeDataURI(uri)
	if err != nil {
		return "", err
	}
	photo, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return photo.DataURI(), nil
}

// decodeDataURI extracts the bytes of "data:<mime>;base64,<payload>".
func decodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURI
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxInputBytes+3 {
		return nil, ErrTooLarge
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	return raw, nil
}

// fit scales img down with Catmull-Rom so neither side exceeds limit, keeping
// the aspect ratio. Smaller images are returned as is.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	nw, nh := limit, limit
	if w > h {
		nh = max(1, h*limit/w)
	} else {
		nw = max(1, w*limit/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
