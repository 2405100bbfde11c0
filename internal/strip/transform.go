// Package strip implements the geometry that cuts a positioned, sized
// and rotated strip region out of the reference image, and the
// nearest-neighbor sampler that fills each strip's own bitmap from it.
package strip

import (
	"github.com/Masterchef365/receipt-collage/internal/geometry"
	"github.com/Masterchef365/receipt-collage/internal/scene"
)

// Transform maps pixels of a strip's own output bitmap back to physical
// positions on the piece. The strip is sampled at a fixed dot density,
// so the output bitmap covers exactly the strip's physical extent.
type Transform struct {
	strip     *scene.Strip
	anchorCm  geometry.Vec2
	unrotate  geometry.Rot2
	dotsPerCm float64
}

// NewTransform prepares the inverse mapping for one strip. dotsPerCm is
// the pixel density of the strip's output bitmap, typically the target
// printer's dot pitch.
func NewTransform(s *scene.Strip, dims scene.Dimensions, dotsPerCm float64) Transform {
	return Transform{
		strip:    s,
		anchorCm: s.AnchorCm(dims),
		// The strip is defined as rotated counter-clockwise on the piece,
		// so finding where an output pixel came from rotates the other way.
		unrotate:  geometry.FromDegrees(s.RotationDeg).Inverse(),
		dotsPerCm: dotsPerCm,
	}
}

// OutputSize returns the width and height in pixels of the strip's
// output bitmap, truncated per axis.
func (t *Transform) OutputSize() (int, int) {
	return int(t.strip.SizeCm[0] * t.dotsPerCm), int(t.strip.SizeCm[1] * t.dotsPerCm)
}

// PixelToPieceCm maps a pixel of the output bitmap to the physical point
// on the piece that supplies its color. The result may legitimately fall
// outside the piece; resolving that is the sampler's job.
func (t *Transform) PixelToPieceCm(x, y int) geometry.Vec2 {
	// pixel -> centimeters within the strip
	local := geometry.V(float64(x), float64(y)).Scale(1 / t.dotsPerCm)

	// recenter so rotation happens about the strip's middle
	centered := local.Sub(geometry.V(t.strip.SizeCm[0]/2, t.strip.SizeCm[1]/2))

	return t.unrotate.Apply(centered).Add(t.anchorCm)
}
