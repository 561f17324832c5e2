package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// format is one decodable image type. TGA has no magic number, and the tga
// package registers itself with image.Decode as a match-anything format, so
// decoding never goes through image.Decode: the decoder is chosen from a
// hint (extension or MIME type) or by sniffing the header.
type format struct {
	exts   []string
	mimes  []string
	magic  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
}

func prefix(p string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(p)) }
}

var formats = []format{
	{exts: []string{".png"}, mimes: []string{"image/png"},
		magic: prefix("\x89PNG\r\n\x1a\n"), decode: png.Decode},
	{exts: []string{".jpg", ".jpeg"}, mimes: []string{"image/jpeg"},
		magic: prefix("\xff\xd8"), decode: jpeg.Decode},
	{exts: []string{".bmp"}, mimes: []string{"image/bmp"},
		magic: prefix("BM"), decode: bmp.Decode},
	{exts: []string{".tif", ".tiff"}, mimes: []string{"image/tiff"},
		magic: func(b []byte) bool {
			return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*"))
		}, decode: tiff.Decode},
	{exts: []string{".webp"}, mimes: []string{"image/webp"},
		magic: func(b []byte) bool {
			return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
		}, decode: webp.Decode},
	{exts: []string{".tga"}, mimes: []string{"image/tga", "image/x-tga", "image/x-targa"},
		magic: func([]byte) bool { return false }, decode: tga.Decode},
}

// Extensions lists the image formats LoadTexture understands.
var Extensions = func() []string {
	var out []string
	for _, f := range formats {
		out = append(out, f.exts...)
	}
	return out
}()

// Supported reports whether path has a decodable image extension.
func Supported(path string) bool {
	return byHint(filepath.Ext(path)) != nil
}

// byHint finds a format by file extension or MIME type.
func byHint(hint string) *format {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return nil
	}
	for i := range formats {
		for _, e := range formats[i].exts {
			if e == hint {
				return &formats[i]
			}
		}
		for _, m := range formats[i].mimes {
			if m == hint {
				return &formats[i]
			}
		}
	}
	return nil
}

// LoadTexture reads an image file and returns it as NRGBA.
func LoadTexture(path string) (*image.NRGBA, error) {
	ext := filepath.Ext(path)
	if !Supported(path) {
		return nil, fmt.Errorf("texture: unknown extension: %s", ext)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw, ext)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes an in-memory image (e.g. one embedded in a GLB). hint is a
// file extension or MIME type and may be empty. Data whose header names
// another format than the hint is decoded by its header; data with no
// recognizable header falls back to the hint, then to TGA.
func Decode(data []byte, hint string) (*image.NRGBA, error) {
	f := sniff(data)
	if f == nil {
		f = byHint(hint)
	}
	if f == nil {
		f = byHint(".tga")
	}
	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

func sniff(data []byte) *format {
	for i := range formats {
		if formats[i].magic(data) {
			return &formats[i]
		}
	}
	return nil
}

// toNRGBA converts any image to NRGBA with origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
