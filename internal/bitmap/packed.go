// This file implements the packed 1-bit-per-pixel bitmap store, with 8
// pixels to a byte and a row stride rounded up to whole bytes.

package bitmap

import "fmt"

const bitsPerWord = 8

// PackedBitmap is a bitmap packed in memory.
type PackedBitmap struct {
	data                  []byte
	width, height, stride int
}

func (b *PackedBitmap) Width() int {
	return b.width
}

func (b *PackedBitmap) Height() int {
	return b.height
}

func (b *PackedBitmap) Stride() int {
	return b.stride
}

func (b *PackedBitmap) Data() []byte {
	return b.data
}

// GetBit gets a single bit from the bitmap at the (x, y) coordinate,
// returning either 0 or 1.
func (b *PackedBitmap) GetBit(x int, y int) byte {
	bitIndex := x % bitsPerWord
	wordStartX := x - bitIndex

	// If the image width is not a multiple of 8, the final byte of a row
	// represents fewer than 8 pixels. Pixels are left-aligned within the
	// byte, so the shift has to account for the short word.
	pixelsInThisWord := b.width - wordStartX
	if pixelsInThisWord > 8 {
		pixelsInThisWord = 8
	}

	index := (y * b.stride) + (x / bitsPerWord)
	return (b.data[index] >> (pixelsInThisWord - 1 - bitIndex)) & 1
}

func (b *PackedBitmap) String() string {
	return fmt.Sprintf("PackedBitmap(%d,%d)", b.width, b.height)
}

// Pack copies data from any Bitmap implementation into the packed
// structure, most significant bit first within each byte.
func Pack(b Bitmap) *PackedBitmap {
	width, height := b.Width(), b.Height()
	stride := (width + bitsPerWord - 1) / bitsPerWord
	data := make([]byte, stride*height)

	for y := range height {
		var p byte = 0
		for x := range width {
			p = (p << 1) | (b.GetBit(x, y) & 1)

			if x == width-1 || x%bitsPerWord == bitsPerWord-1 {
				index := y*stride + (x / bitsPerWord)
				data[index] = p
				p = 0
			}
		}
	}

	return &PackedBitmap{data, width, height, stride}
}
