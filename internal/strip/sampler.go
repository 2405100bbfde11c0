package strip

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/Masterchef365/receipt-collage/internal/geometry"
	"github.com/Masterchef365/receipt-collage/internal/scene"
)

// PixelIndex resolves a physical centimeter point on the piece to a
// pixel index of the reference image. The index is only valid when it
// is strictly greater than 0 and strictly less than the resolution on
// both axes; row and column 0 never sample.
func PixelIndex(dims scene.Dimensions, p geometry.Vec2) (int, int, bool) {
	norm := p.Div(geometry.V(dims.WidthCentimeters(), dims.HeightCentimeters()))

	// truncation toward zero
	x := int(norm.X * float64(dims.Resolution[0]))
	y := int(norm.Y * float64(dims.Resolution[1]))

	if norm.X < 0 || norm.Y < 0 {
		return 0, 0, false
	}
	if x <= 0 || x >= dims.Resolution[0] || y <= 0 || y >= dims.Resolution[1] {
		return 0, 0, false
	}
	return x, y, true
}

// Render produces the strip's bitmap by resolving every output pixel
// through the inverse transform. Pixels that miss the reference image
// stay opaque white. Nearest neighbor only; no filtering.
func Render(ref image.Image, dims scene.Dimensions, s *scene.Strip, dotsPerCm float64) *image.RGBA {
	t := NewTransform(s, dims, dotsPerCm)
	width, height := t.OutputSize()

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	refBounds := ref.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy, ok := PixelIndex(dims, t.PixelToPieceCm(x, y))
			if !ok {
				continue
			}
			out.Set(x, y, ref.At(refBounds.Min.X+sx, refBounds.Min.Y+sy))
		}
	}

	return out
}

// RenderAll renders every strip in the scene in order.
func RenderAll(ref image.Image, s *scene.Scene, dotsPerCm float64) []*image.RGBA {
	out := make([]*image.RGBA, len(s.Strips))
	for i := range s.Strips {
		out[i] = Render(ref, s.Dims, &s.Strips[i], dotsPerCm)
	}
	return out
}
