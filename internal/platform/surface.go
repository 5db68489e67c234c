package platform

import (
	"image"
	"image/color"
)

// Surface is the pixel store behind a window that has no GL context. It only
// ever shows a blank area.
type Surface interface {
	ColorModel() color.Model
	Bounds() image.Rectangle
	At(x, y int) color.Color
	RGBA() *image.RGBA
}

type SurfaceFactory interface {
	New(width, height int) Surface
}

func DefaultSurfaceFactory() SurfaceFactory {
	return surfaceFactoryFunc(NewRGBASurface)
}

type surfaceFactoryFunc func(width, height int) Surface

func (f surfaceFactoryFunc) New(width, height int) Surface {
	return f(width, height)
}

// NewRGBASurface creates a Surface backed by image.RGBA. Negative sizes are clamped to zero.
func NewRGBASurface(width, height int) Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &rgbaSurface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

type rgbaSurface struct {
	img *image.RGBA
}

func (s *rgbaSurface) ColorModel() color.Model {
	return s.img.ColorModel()
}

func (s *rgbaSurface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *rgbaSurface) At(x, y int) color.Color {
	return s.img.At(x, y)
}

func (s *rgbaSurface) RGBA() *image.RGBA {
	return s.img
}
