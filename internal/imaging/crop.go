package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	pngMimeType   = "image/png"
	dataURIPrefix = "data:" + pngMimeType + ";base64,"
)

// Snapshot is an owned PNG copy of some pixels, carried as a data URI.
//
// A snapshot is independent of the image it was taken from: later changes to
// the source, or to the threshold preview, never reach it.
type Snapshot struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"`
	DataURI  string `json:"data_uri"`

	img image.Image
}

// NewSnapshot crops rect out of src and encodes it as a PNG data URI.
func NewSnapshot(src image.Image, rect image.Rectangle) (*Snapshot, error) {
	bounds := src.Bounds()

	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if rect.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return EncodeSnapshot(imaging.Crop(src, rect))
}

// EncodeSnapshot encodes the whole of img as a PNG snapshot.
func EncodeSnapshot(img image.Image) (*Snapshot, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return &Snapshot{
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		MimeType: pngMimeType,
		DataURI:  dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		img:      img,
	}, nil
}

// Base64 returns the PNG payload without the data URI prefix.
func (s *Snapshot) Base64() string {
	return strings.TrimPrefix(s.DataURI, dataURIPrefix)
}

// Image returns the snapshot's pixels. A snapshot that was decoded from JSON
// rather than created in this process is decoded from its data URI on every
// call; Image never writes to s, so it is safe for concurrent use.
func (s *Snapshot) Image() (image.Image, error) {
	if s.img != nil {
		return s.img, nil
	}
	return DecodeDataURI(s.DataURI)
}

// DecodeDataURI decodes a base64 image data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}

	raw, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	img, _, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return img, nil
}
