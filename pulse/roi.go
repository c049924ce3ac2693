package pulse

import (
	"image"
	"image/color"
)

// CenterROI returns the square region at the centre of bounds whose side is
// two fifths of the shorter dimension.
func CenterROI(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	r := min(w, h) / 5

	cx := bounds.Min.X + w/2
	cy := bounds.Min.Y + h/2

	return image.Rect(cx-r, cy-r, cx+r, cy+r).Intersect(bounds)
}

// AverageRed returns the mean red channel value (0-255) over roi. Frames are
// assumed to be opaque.
func AverageRed(img image.Image, roi image.Rectangle) float64 {
	roi = roi.Intersect(img.Bounds())
	if roi.Empty() {
		return 0
	}

	var sum uint64

	switch src := img.(type) {
	case *image.RGBA:
		sum = sumRedPix(src.Pix, src.Stride, src.PixOffset(roi.Min.X, roi.Min.Y), roi)
	case *image.NRGBA:
		sum = sumRedPix(src.Pix, src.Stride, src.PixOffset(roi.Min.X, roi.Min.Y), roi)
	default:
		for y := roi.Min.Y; y < roi.Max.Y; y++ {
			for x := roi.Min.X; x < roi.Max.X; x++ {
				c, _ := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				sum += uint64(c.R)
			}
		}
	}

	return float64(sum) / float64(roi.Dx()*roi.Dy())
}

func sumRedPix(pix []uint8, stride, offset int, roi image.Rectangle) uint64 {
	var sum uint64

	for y := 0; y < roi.Dy(); y++ {
		row := offset + y*stride

		for x := 0; x < roi.Dx(); x++ {
			sum += uint64(pix[row+x*4])
		}
	}

	return sum
}
