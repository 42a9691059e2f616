package segment

import "image"

// IsSolidRow reports whether every pixel of the given row stays within
// threshold of the row's leftmost pixel on each of the R, G and B channels.
// Alpha is ignored. The row index is relative to img.Bounds().Min.Y.
func IsSolidRow(img *image.RGBA, row, width int, threshold uint8) bool {
	if width <= 1 {
		return true
	}

	off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+row)
	px := img.Pix[off : off+width*4]

	t := int(threshold)
	r0, g0, b0 := int(px[0]), int(px[1]), int(px[2])

	for i := 4; i < len(px); i += 4 {
		if outside(int(px[i]), r0, t) || outside(int(px[i+1]), g0, t) || outside(int(px[i+2]), b0, t) {
			return false
		}
	}
	return true
}

// outside works in int so that ref±t never wraps at 0 or 255
func outside(c, ref, t int) bool {
	return c > ref+t || c < ref-t
}
