package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{181, 127, 63, 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testImage()); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	expected := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"0 0 255\n" +
		"181 127 63\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("PPM mismatch (-want +got):\n%s", diff)
	}
}

func TestWritePNG_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	img := testImage()
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := img.RGBAAt(x, y)
			r, g, b, a := decoded.At(x, y).RGBA()
			got := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
			if got != want {
				t.Errorf("Pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		path      string
		expectErr bool
		prefix    []byte
	}{
		{"ppm", filepath.Join(dir, "out.ppm"), false, []byte("P3\n")},
		{"png in new directory", filepath.Join(dir, "nested", "out.PNG"), false, []byte("\x89PNG")},
		{"unsupported", filepath.Join(dir, "out.jpg"), true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Write(tt.path, testImage())
			if (err != nil) != tt.expectErr {
				t.Fatalf("Write() error = %v, expectErr %t", err, tt.expectErr)
			}
			if tt.expectErr {
				if _, statErr := os.Stat(tt.path); !os.IsNotExist(statErr) {
					t.Errorf("Expected no file for failed write, stat error %v", statErr)
				}
				return
			}
			data, err := os.ReadFile(tt.path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if !bytes.HasPrefix(data, tt.prefix) {
				t.Errorf("File starts with %q, want prefix %q", data[:min(len(data), 8)], tt.prefix)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	got := DefaultPath("random-spheres", ".ppm", now)
	want := filepath.Join("output", "random-spheres", "render_20240305_140709.ppm")
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
