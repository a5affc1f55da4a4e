package immg

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ImageFormat selects the encoding for atlas export.
type ImageFormat int

const (
	// FormatBMP writes an 8-bit paletted grayscale BMP.
	FormatBMP ImageFormat = iota
	// FormatPNG writes an 8-bit grayscale PNG.
	FormatPNG
)

// String returns the usual file extension without the dot.
func (f ImageFormat) String() string {
	switch f {
	case FormatBMP:
		return "bmp"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP, nil
	case ".png":
		return FormatPNG, nil
	default:
		return 0, fmt.Errorf("%w: unsupported image extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
}

// EncodeAtlas writes the atlas bitmap as a single-channel image.
func EncodeAtlas(w io.Writer, bm *AtlasBitmap, format ImageFormat) error {
	img := bm.Image()
	switch format {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	default:
		return fmt.Errorf("%w: unknown image format %v", ErrInvalidConfig, format)
	}
}

// SaveAtlas writes the atlas bitmap to path for inspection. The format is
// chosen from the extension (.bmp or .png).
func SaveAtlas(path string, bm *AtlasBitmap) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create atlas image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := EncodeAtlas(w, bm, format); err != nil {
		return fmt.Errorf("encode atlas image: %w", err)
	}
	return w.Flush()
}
