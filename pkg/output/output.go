// Package output writes rendered images to disk.
package output

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// WritePPM writes img as a plain-text P3 PPM: the header "P3\n<w> <h>\n255\n"
// followed by one "r g b" line per pixel, rows top to bottom.
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return xerrors.Errorf("while writing PPM header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// RGBA() returns 16-bit channels
			r, g, b, _ := img.At(x, y).RGBA()
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8); err != nil {
				return xerrors.Errorf("while writing PPM pixel (%d, %d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return xerrors.Errorf("while flushing PPM: %w", err)
	}
	return nil
}

// WritePNG writes img as a PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return xerrors.Errorf("while encoding PNG: %w", err)
	}
	return nil
}

// Write saves img to path, choosing the format from the extension
// (.ppm or .png). Missing parent directories are created.
func Write(path string, img image.Image) (retErr error) {
	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		encode = WritePPM
	case ".png":
		encode = WritePNG
	default:
		return xerrors.Errorf("unsupported output format %q for %s (want .ppm or .png)", ext, path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return xerrors.Errorf("while creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("while creating %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil && retErr == nil {
			retErr = xerrors.Errorf("while closing %s: %w", path, err)
		}
	}()

	if err := encode(file, img); err != nil {
		return xerrors.Errorf("while writing %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns output/<scene>/render_<timestamp>.<ext>
func DefaultPath(sceneName, ext string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.%s", timestamp, strings.TrimPrefix(ext, ".")))
}
