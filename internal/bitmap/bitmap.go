// Package bitmap defines the 1-bit-per-pixel bitmap model consumed by
// the printer encoder: an interface for anything that can report a bit
// per (x, y) coordinate, a simple byte-per-pixel implementation, and a
// packed representation that stores 8 pixels per byte.
package bitmap

import "fmt"

type Bitmap interface {
	Width() int
	Height() int
	GetBit(x int, y int) byte
}

// PixelBitmap stores each pixel in its own byte in a 2D layout.
type PixelBitmap struct {
	pixels        [][]byte
	width, height int
}

func (b *PixelBitmap) Width() int {
	return b.width
}

func (b *PixelBitmap) Height() int {
	return b.height
}

func (b *PixelBitmap) GetBit(x int, y int) byte {
	return b.pixels[y][x]
}

func (b *PixelBitmap) String() string {
	return fmt.Sprintf("PixelBitmap(%d,%d)", b.width, b.height)
}

// FromRows wraps a 2D pixel grid. Every row must be exactly width long.
func FromRows(pixels [][]byte, width int) *PixelBitmap {
	return &PixelBitmap{pixels: pixels, width: width, height: len(pixels)}
}

// FromFlat maps a flat byte-per-pixel buffer into a bitmap. The buffer
// length must be a non-zero multiple of the width.
func FromFlat(data []byte, width int) (*PixelBitmap, error) {
	if width <= 0 {
		return nil, fmt.Errorf("Bitmap width must be positive, got %v", width)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("Bitmap pixel data is empty")
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("Bitmap pixels not consistent with width (got %v, expecting a multiple of %v)",
			len(data), width)
	}

	height := len(data) / width
	pixels := make([][]byte, height)
	for y := range height {
		pixels[y] = data[y*width : (y+1)*width]
	}

	return &PixelBitmap{
		pixels: pixels,
		width:  width,
		height: height,
	}, nil
}
