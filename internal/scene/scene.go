// Package scene models the piece being collaged: the reference image's
// physical dimensions and the list of strips laid out over it.
package scene

import (
	"time"

	"github.com/google/uuid"

	"github.com/Masterchef365/receipt-collage/internal/geometry"
)

// Dimensions describes the piece: the pixel resolution of the reference
// image and the real-world width of the piece in centimeters. Height is
// derived from the aspect ratio, so Resolution[1] must be non-zero.
type Dimensions struct {
	// Resolution of the reference image, in pixels
	Resolution [2]int `json:"resolution"`
	// Real-world width of the piece, in centimeters
	WidthCm float64 `json:"width"`
}

// WidthCentimeters returns the physical width of the piece.
func (d Dimensions) WidthCentimeters() float64 {
	return d.WidthCm
}

// HeightCentimeters returns the physical height of the piece, derived
// from the width and the image's aspect ratio.
func (d Dimensions) HeightCentimeters() float64 {
	return d.WidthCm / d.aspect()
}

func (d Dimensions) aspect() float64 {
	return float64(d.Resolution[0]) / float64(d.Resolution[1])
}

// PxPerCm returns the pixel density of the reference image per axis.
func (d Dimensions) PxPerCm() geometry.Vec2 {
	return geometry.V(
		float64(d.Resolution[0])/d.WidthCentimeters(),
		float64(d.Resolution[1])/d.HeightCentimeters(),
	)
}

// CmPerNorm returns how many centimeters one normalized scene coordinate
// unit covers. Using the larger of width and height keeps positions
// comparable across non-square pieces.
func (d Dimensions) CmPerNorm() float64 {
	w, h := d.WidthCentimeters(), d.HeightCentimeters()
	if w > h {
		return w
	}
	return h
}

// Strip is one strip of paper laid over the piece.
type Strip struct {
	// Position of the strip center in normalized coordinates (0 to 1)
	Position [2]float64 `json:"position"`
	// Width, height in centimeters
	SizeCm [2]float64 `json:"size"`
	// Counter-clockwise rotation in degrees, with 0 resting on the x axis
	RotationDeg float64 `json:"rotation"`
	// Display color as "#rrggbb"; has no effect on sampling or printing
	Color string `json:"color,omitempty"`
}

// AnchorCm returns the strip's position converted to centimeters in the
// piece's physical frame.
func (s *Strip) AnchorCm(dims Dimensions) geometry.Vec2 {
	cmPerNorm := dims.CmPerNorm()
	return geometry.V(s.Position[0]*cmPerNorm, s.Position[1]*cmPerNorm)
}

// Scene is the full layout: dimensions plus an ordered list of strips.
// Strips are independent of one another.
type Scene struct {
	Uuid      uuid.UUID  `json:"-"`
	Id        int        `json:"-"`
	Name      string     `json:"name,omitempty"`
	CreatedAt time.Time  `json:"-"`
	Dims      Dimensions `json:"dims"`
	Strips    []Strip    `json:"strips"`
}

// Default returns the scene a fresh document starts from.
func Default() Scene {
	return Scene{
		Dims: Dimensions{
			Resolution: [2]int{1920, 1080},
			WidthCm:    100,
		},
	}
}
