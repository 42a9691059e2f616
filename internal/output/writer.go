package output

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"
)

type Format string

const (
	JPEG Format = "jpg"
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat accepts the usual spellings of the supported formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "jpg", "jpeg", "":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Writer crops full-width bands out of an image and stores each one as a
// numbered file in Dir.
type Writer struct {
	Dir     string
	Format  Format
	Quality int // JPEG only
	Workers int
	Log     logrus.FieldLogger
}

func NewWriter(dir string, format Format, quality, workers int, log logrus.FieldLogger) *Writer {
	return &Writer{
		Dir:     dir,
		Format:  format,
		Quality: quality,
		Workers: workers,
		Log:     log,
	}
}

// PagePath returns the file name used for the page with the given index.
func (w *Writer) PagePath(index int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%03d.%s", index, w.Format))
}

// Write stores one file per boundary in rows, where page i spans
// [rows[i-1], rows[i]) and the first page starts at row 0. The returned
// paths are in page order. The first failure cancels the remaining pages;
// files already written are left in place.
func (w *Writer) Write(ctx context.Context, img *image.RGBA, rows []int) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, err
	}

	workers := w.Workers
	if workers < 1 {
		workers = 1
	}

	bounds := img.Bounds()
	paths := make([]string, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	top := 0
	for i, bottom := range rows {
		rect := image.Rect(bounds.Min.X, bounds.Min.Y+top, bounds.Max.X, bounds.Min.Y+bottom)
		top = bottom

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := w.PagePath(i)
			if err := w.writePage(path, img.SubImage(rect)); err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			paths[i] = path
			if w.Log != nil {
				w.Log.WithFields(logrus.Fields{
					"page":   i,
					"path":   path,
					"height": rect.Dy(),
				}).Debug("page written")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (w *Writer) writePage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := w.encode(bw, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *Writer) encode(out io.Writer, img image.Image) error {
	switch w.Format {
	case JPEG:
		return jpeg.Encode(out, img, &jpeg.Options{Quality: w.Quality})
	case PNG:
		return png.Encode(out, img)
	case BMP:
		return bmp.Encode(out, img)
	case TIFF:
		return tiff.Encode(out, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unknown output format: %s", w.Format)
	}
}
