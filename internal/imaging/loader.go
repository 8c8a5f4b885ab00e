package imaging

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrNotImage is returned when intake data does not sniff as an image/* type.
var ErrNotImage = errors.New("not an image")

// sniffLen is the number of leading bytes inspected for MIME detection.
const sniffLen = 512

// ImageInfo contains metadata about a decoded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder name reported by image.Decode ("png", "jpeg", ...).
	Format string `json:"format"`

	// MimeType is the sniffed content type, always image/*.
	MimeType string `json:"mime_type"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the encoded input in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// SniffMimeType returns the content type of the given leading bytes.
//
// net/http's sniffer covers PNG, JPEG, GIF, BMP and WebP; TIFF has no entry
// there, so its two byte-order signatures are checked explicitly.
func SniffMimeType(head []byte) string {
	if bytes.HasPrefix(head, []byte("II*\x00")) || bytes.HasPrefix(head, []byte("MM\x00*")) {
		return "image/tiff"
	}
	return http.DetectContentType(head)
}

// Decode sniffs and decodes an image from r.
//
// Only data whose sniffed MIME type is image/* is accepted; everything else
// returns ErrNotImage without attempting to decode. Oversized images are not
// rejected, the Surface downscales them for display.
func Decode(r io.Reader) (image.Image, *ImageInfo, error) {
	cr := &countingReader{r: r}
	br := bufio.NewReaderSize(cr, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if len(head) == 0 {
		return nil, nil, fmt.Errorf("empty input: %w", ErrNotImage)
	}

	mime := SniffMimeType(head)
	if !strings.HasPrefix(mime, "image/") {
		return nil, nil, fmt.Errorf("content type %s: %w", mime, ErrNotImage)
	}

	img, format, err := image.Decode(br)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil, fmt.Errorf("decoded image has no pixels")
	}

	return img, &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		MimeType:      mime,
		HasAlpha:      hasAlpha(img),
		FileSizeBytes: cr.n,
	}, nil
}

// LoadFile opens and decodes the image at path.
func LoadFile(path string) (image.Image, *ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, info, err := Decode(f)
	if err != nil {
		return nil, nil, err
	}

	if stat, err := f.Stat(); err == nil {
		info.FileSizeBytes = stat.Size()
	}
	return img, info, nil
}

// hasAlpha reports whether img carries an alpha channel that is not fully opaque.
func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		if o, ok := img.(interface{ Opaque() bool }); ok {
			return !o.Opaque()
		}
		return true
	}
	return false
}

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
