package output

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func stripes(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(y), G: uint8(x), B: 0, A: 255})
		}
	}
	return img
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"jpg", JPEG, false},
		{"JPEG", JPEG, false},
		{"", JPEG, false},
		{"png", PNG, false},
		{"bmp", BMP, false},
		{"tif", TIFF, false},
		{"gif", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriterPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	w := NewWriter(dir, PNG, 90, 2, nil)

	img := stripes(6, 100)
	paths, err := w.Write(context.Background(), img, []int{30, 70, 100})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "000.png"),
		filepath.Join(dir, "001.png"),
		filepath.Join(dir, "002.png"),
	}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d paths, got %d", len(want), len(paths))
	}

	heights := []int{30, 40, 30}
	tops := []int{0, 30, 70}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("path %d = %s, want %s", i, p, want[i])
		}
		page := decodeFile(t, p)
		if page.Bounds().Dx() != 6 || page.Bounds().Dy() != heights[i] {
			t.Errorf("page %d has size %v, want 6x%d", i, page.Bounds().Size(), heights[i])
		}
		r, _, _, _ := page.At(page.Bounds().Min.X, page.Bounds().Min.Y).RGBA()
		if uint8(r>>8) != uint8(tops[i]) {
			t.Errorf("page %d starts with row %d, want %d", i, r>>8, tops[i])
		}
	}
}

func TestWriterFormats(t *testing.T) {
	img := stripes(8, 20)

	for _, f := range []Format{JPEG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			w := NewWriter(t.TempDir(), f, 80, 1, nil)
			paths, err := w.Write(context.Background(), img, []int{20})
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if filepath.Ext(paths[0]) != "."+string(f) {
				t.Errorf("unexpected extension in %s", paths[0])
			}
			if got := decodeFile(t, paths[0]).Bounds().Size(); got != image.Pt(8, 20) {
				t.Errorf("decoded size %v, want 8x20", got)
			}
		})
	}
}

func TestWriterOutputError(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(filepath.Join(blocker, "pages"), PNG, 90, 1, nil)
	if _, err := w.Write(context.Background(), stripes(2, 10), []int{10}); err == nil {
		t.Error("Expected error when output directory cannot be created")
	}
}

func TestWriterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(t.TempDir(), PNG, 90, 1, nil)
	if _, err := w.Write(ctx, stripes(2, 10), []int{5, 10}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestPagePathPadding(t *testing.T) {
	w := NewWriter("out", JPEG, 90, 1, nil)
	if got := w.PagePath(7); got != filepath.Join("out", "007.jpg") {
		t.Errorf("PagePath(7) = %s", got)
	}
	if got := w.PagePath(1234); got != filepath.Join("out", "1234.jpg") {
		t.Errorf("PagePath(1234) = %s", got)
	}
}
