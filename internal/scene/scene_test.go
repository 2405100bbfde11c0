package scene

import (
	"math"
	"path/filepath"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDerivedDimensions(t *testing.T) {
	d := Dimensions{Resolution: [2]int{1920, 1080}, WidthCm: 100}

	if !near(d.HeightCentimeters(), 56.25) {
		t.Errorf("height = %v, want 56.25", d.HeightCentimeters())
	}
	if !near(d.CmPerNorm(), 100) {
		t.Errorf("cm per norm = %v, want 100", d.CmPerNorm())
	}

	px := d.PxPerCm()
	if !near(px.X, 19.2) || !near(px.Y, 19.2) {
		t.Errorf("px per cm = %v, want (19.2, 19.2)", px)
	}
}

func TestCmPerNormTallPiece(t *testing.T) {
	// a portrait piece: height exceeds width, so normalization follows height
	d := Dimensions{Resolution: [2]int{1080, 1920}, WidthCm: 50}
	height := d.HeightCentimeters()
	if height <= 50 {
		t.Fatalf("expected height > width, got %v", height)
	}
	if !near(d.CmPerNorm(), height) {
		t.Errorf("cm per norm = %v, want %v", d.CmPerNorm(), height)
	}
}

func TestStripAnchor(t *testing.T) {
	d := Dimensions{Resolution: [2]int{1920, 1080}, WidthCm: 100}
	s := Strip{Position: [2]float64{0.5, 0.25}}
	a := s.AnchorCm(d)
	if !near(a.X, 50) || !near(a.Y, 25) {
		t.Errorf("anchor = %v, want (50, 25)", a)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")

	s := Default()
	s.Name = "test piece"
	s.Strips = []Strip{
		{Position: [2]float64{0.5, 0.5}, SizeCm: [2]float64{4.8, 50}, RotationDeg: 12.5, Color: "#ff0000"},
		{Position: [2]float64{0.25, 0.75}, SizeCm: [2]float64{4.8, 30}, RotationDeg: -45, Color: "#00ff00"},
	}

	if err := SaveDocument(path, &s); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Dims != s.Dims {
		t.Errorf("dims don't match: %+v vs %+v", loaded.Dims, s.Dims)
	}
	if len(loaded.Strips) != len(s.Strips) {
		t.Fatalf("strip count doesn't match: %v vs %v", len(loaded.Strips), len(s.Strips))
	}
	for i := range s.Strips {
		if loaded.Strips[i] != s.Strips[i] {
			t.Errorf("strip %v doesn't match: %+v vs %+v", i, loaded.Strips[i], s.Strips[i])
		}
	}
}

func TestLoadDocumentRejectsBadDims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")

	s := Scene{Dims: Dimensions{Resolution: [2]int{1920, 0}, WidthCm: 100}}
	if err := SaveDocument(path, &s); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := LoadDocument(path); err == nil {
		t.Error("expected error for zero-height resolution")
	}
}
