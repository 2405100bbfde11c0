// Package printer serializes 1-bit bitmaps into the raster byte
// protocol of a POS-58 thermal receipt printer and provides the
// bluetooth transport the stream is written to.
package printer

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/Masterchef365/receipt-collage/internal/bitmap"
)

var (
	// ErrWrongWidth is returned when the bitmap width doesn't match the
	// printer's fixed dot width.
	ErrWrongWidth = errors.New("bitmap width doesn't match printer width")
	// ErrEmptyBitmap is returned for a bitmap with no rows.
	ErrEmptyBitmap = errors.New("bitmap has no rows")
)

// Encode writes the bitmap to the transport as one print job: a
// line-spacing setup command followed by one raster band per 24 rows,
// flushing before returning. Preconditions are checked before any byte
// is written; a transport error aborts the remaining bands. The stream
// is stateful, so at most one Encode may run per job on a transport.
func Encode(w io.Writer, b bitmap.Bitmap) error {
	if b.Width() != DotsPerLine {
		return fmt.Errorf("%w: got %v, want %v", ErrWrongWidth, b.Width(), DotsPerLine)
	}
	if b.Height() <= 0 {
		return ErrEmptyBitmap
	}

	out := bufio.NewWriter(w)

	// print bands contiguously
	if _, err := out.Write(setLineSpacing(0)); err != nil {
		return fmt.Errorf("Couldn't write to printer:\n%w", err)
	}

	for top := 0; top < b.Height(); top += BandRows {
		if err := writeBand(out, b, top); err != nil {
			return err
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("Couldn't flush data to printer:\n%w", err)
	}

	return nil
}

func writeBand(out *bufio.Writer, b bitmap.Bitmap, top int) error {
	if _, err := out.Write(rasterBandHeader(b.Width())); err != nil {
		return fmt.Errorf("Couldn't write band header:\n%w", err)
	}

	for x := 0; x < b.Width(); x++ {
		col := packColumn(b, x, top)
		if _, err := out.Write(col[:]); err != nil {
			return fmt.Errorf("Couldn't write band data:\n%w", err)
		}
	}

	// the line feed advances the print head past the band
	if err := out.WriteByte(LineFeed); err != nil {
		return fmt.Errorf("Couldn't write band terminator:\n%w", err)
	}

	return nil
}

// packColumn packs the 24 rows of one column of the band starting at
// row top into 3 bytes, one per group of 8 rows, most significant bit
// first. Rows past the bottom of the bitmap stay unset, which pads the
// final short band with blanks.
func packColumn(b bitmap.Bitmap, x, top int) [3]byte {
	var col [3]byte
	height := b.Height()

	for k := range 3 {
		var p byte = 0
		for bit := range 8 {
			row := top + k*8 + bit
			p <<= 1
			if row < height && b.GetBit(x, row) != 0 {
				p |= 1
			}
		}
		col[k] = p
	}

	return col
}
