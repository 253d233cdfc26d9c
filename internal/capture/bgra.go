package capture

import (
	"fmt"
	"image"
)

// CopyBGRA copies a top-down 32bpp BGRA bitmap into dst, starting at
// (offX, offY) in the source. This is the layout GDI hands back from
// GetDIBits with a negative height. Alpha is forced opaque because GDI leaves
// it undefined.
func CopyBGRA(dst *image.RGBA, src []byte, srcWidth, srcHeight, offX, offY int) error {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if offX < 0 || offY < 0 || offX+w > srcWidth || offY+h > srcHeight {
		return fmt.Errorf("crop %dx%d@%d,%d outside %dx%d source", w, h, offX, offY, srcWidth, srcHeight)
	}
	if len(src) < srcWidth*srcHeight*4 {
		return fmt.Errorf("source buffer too short: %d bytes for %dx%d", len(src), srcWidth, srcHeight)
	}

	srcStride := srcWidth * 4
	for y := 0; y < h; y++ {
		s := src[(offY+y)*srcStride+offX*4:]
		d := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = 0xff
		}
	}
	return nil
}
