package strip

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/Masterchef365/receipt-collage/internal/geometry"
	"github.com/Masterchef365/receipt-collage/internal/scene"
)

// 64x32 px over 8cm gives 8 px/cm on both axes and keeps the piece
// height (4cm) exact in floating point
var cropDims = scene.Dimensions{Resolution: [2]int{64, 32}, WidthCm: 8}

func aReferenceImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 0xFF})
		}
	}
	return img
}

func TestPixelIndexBounds(t *testing.T) {
	cases := []struct {
		name  string
		p     geometry.Vec2
		x, y  int
		valid bool
	}{
		{"interior", geometry.V(4, 2), 32, 16, true},
		{"last column still valid", geometry.V(7.99, 2), 63, 16, true},
		{"index zero is out of bounds", geometry.V(0.05, 2), 0, 0, false},
		{"row zero is out of bounds", geometry.V(4, 0.05), 0, 0, false},
		{"negative", geometry.V(-1, 2), 0, 0, false},
		{"right edge", geometry.V(8, 2), 0, 0, false},
		{"bottom edge", geometry.V(4, 4), 0, 0, false},
		{"far outside", geometry.V(100, 100), 0, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y, ok := PixelIndex(cropDims, c.p)
			if ok != c.valid {
				t.Fatalf("valid = %v, want %v", ok, c.valid)
			}
			if ok && (x != c.x || y != c.y) {
				t.Errorf("index = (%v, %v), want (%v, %v)", x, y, c.x, c.y)
			}
		})
	}
}

// An unrotated strip sampled at the image's own pixel density must
// reproduce a pixel-identical crop of the reference image.
func TestRenderIsExactCropAtMatchingDensity(t *testing.T) {
	ref := aReferenceImage()
	s := scene.Strip{
		Position: [2]float64{0.5, 0.25},
		SizeCm:   [2]float64{2, 2},
	}

	out := Render(ref, cropDims, &s, 8)
	if got := out.Bounds(); got.Dx() != 16 || got.Dy() != 16 {
		t.Fatalf("output size = %v, want 16x16", got)
	}

	// the strip center sits at (4cm, 2cm) = pixel (32, 16); its top-left
	// pixel therefore samples (24, 8)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := ref.RGBAAt(24+x, 8+y)
			got := out.RGBAAt(x, y)
			if got != want {
				t.Fatalf("pixel (%v, %v) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderFillsMissesWithWhite(t *testing.T) {
	ref := aReferenceImage()
	// a strip centered on the piece origin hangs mostly off the image
	s := scene.Strip{
		Position: [2]float64{0, 0},
		SizeCm:   [2]float64{2, 2},
	}

	out := Render(ref, cropDims, &s, 8)
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	if got := out.RGBAAt(0, 0); got != white {
		t.Errorf("off-piece pixel = %v, want opaque white", got)
	}
	// the strip center lands exactly on the piece corner, which resolves
	// to index 0, where the boundary policy refuses to sample
	if got := out.RGBAAt(8, 8); got != white {
		t.Errorf("boundary pixel = %v, want opaque white", got)
	}
	// past the boundary row/column real samples appear
	if got := out.RGBAAt(15, 15); got == white {
		t.Errorf("interior pixel unexpectedly white")
	}
}

func TestRenderRotationModulo360(t *testing.T) {
	ref := aReferenceImage()
	a := scene.Strip{Position: [2]float64{0.4, 0.3}, SizeCm: [2]float64{1.5, 3}, RotationDeg: 17}
	b := a
	b.RotationDeg = 17 + 360

	outA := Render(ref, cropDims, &a, 8)
	outB := Render(ref, cropDims, &b, 8)
	if !bytes.Equal(outA.Pix, outB.Pix) {
		t.Error("rotation by t and t+360 produced different bitmaps")
	}
}

func TestRenderAllKeepsStripOrder(t *testing.T) {
	ref := aReferenceImage()
	sc := scene.Scene{
		Dims: cropDims,
		Strips: []scene.Strip{
			{Position: [2]float64{0.5, 0.25}, SizeCm: [2]float64{2, 2}},
			{Position: [2]float64{0.5, 0.25}, SizeCm: [2]float64{1, 1}},
		},
	}

	out := RenderAll(ref, &sc, 8)
	if len(out) != 2 {
		t.Fatalf("rendered %v strips, want 2", len(out))
	}
	if out[0].Bounds().Dx() != 16 || out[1].Bounds().Dx() != 8 {
		t.Errorf("strips rendered out of order: %v, %v", out[0].Bounds(), out[1].Bounds())
	}
}
