package source

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// Source produces the full raster that is going to be split.
type Source interface {
	Load(ctx context.Context) (*image.RGBA, error)
	Close() error
}

// Open picks a source implementation by file extension. PDF pages are
// rasterized at dpi; page is zero-based and ignored for raster files.
func Open(path string, dpi, page int) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path, dpi, page)
	}
	return NewImageSource(path)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
	page int
}

func NewFitzPDFSource(path string, dpi, page int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if page >= doc.NumPage() {
		doc.Close()
		return nil, fmt.Errorf("%s has %d pages, page %d requested", path, doc.NumPage(), page)
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi, page: page}, nil
}

func (f *FitzPDFSource) Load(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := f.doc.ImageDPI(f.page, float64(f.dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d of %s: %w", f.page, f.path, err)
	}
	return toRGBA(img), nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// toRGBA returns img itself when it is already an RGBA anchored at the
// origin, otherwise a converted copy. Images with transparency keep their
// straight (non-premultiplied) R, G and B values and become opaque.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
		return rgba
	}

	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			src := n.Pix[n.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			dst := rgba.Pix[rgba.PixOffset(0, y):]
			for i := 0; i < bounds.Dx()*4; i += 4 {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i], src[i+1], src[i+2], 0xff
			}
		}
		return rgba
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			var px color.RGBA
			switch c := img.At(bounds.Min.X+x, bounds.Min.Y+y).(type) {
			case color.NRGBA64:
				px = color.RGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8)}
			default:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				px = color.RGBA{R: n.R, G: n.G, B: n.B}
			}
			px.A = 0xff
			rgba.SetRGBA(x, y, px)
		}
	}
	return rgba
}
