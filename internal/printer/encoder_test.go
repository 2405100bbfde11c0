package printer

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/Masterchef365/receipt-collage/internal/bitmap"
)

func aSolidBitmap(width, height int, value byte) *bitmap.PixelBitmap {
	pixels := make([][]byte, height)
	for y := range height {
		row := make([]byte, width)
		for x := range width {
			row[x] = value
		}
		pixels[y] = row
	}
	return bitmap.FromRows(pixels, width)
}

var (
	lineSpacingCmd = []byte{0x1B, 0x33, 0x00}
	bandHeader     = []byte{0x1B, 0x2A, 0x21, 0x80, 0x04} // 3*384 = 1152 = 0x0480 LE
)

const bandDataLen = 3 * DotsPerLine

func TestEncodeAllSetSingleBand(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, aSolidBitmap(DotsPerLine, 24, 1)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	want := append([]byte{}, lineSpacingCmd...)
	want = append(want, bandHeader...)
	for range bandDataLen {
		want = append(want, 0xFF)
	}
	want = append(want, LineFeed)

	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("encoded stream doesn't match: got %d bytes, want %d", buf.Len(), len(want))
		for i := range want {
			if i >= buf.Len() {
				t.Fatalf("stream truncated at offset %v", i)
			}
			if buf.Bytes()[i] != want[i] {
				t.Fatalf("first mismatch at offset %v: got %x, want %x", i, buf.Bytes()[i], want[i])
			}
		}
	}
}

func TestEncodeAllUnset(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, aSolidBitmap(DotsPerLine, 24, 0)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	data := buf.Bytes()[len(lineSpacingCmd)+len(bandHeader):]
	data = data[:bandDataLen]
	for i, b := range data {
		if b != 0x00 {
			t.Fatalf("data byte %v = %x, want 00", i, b)
		}
	}
}

func TestEncodeBandCount(t *testing.T) {
	cases := []struct {
		height, bands int
	}{
		{24, 1},
		{48, 2},
		{25, 2},
		{1, 1},
		{49, 3},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("height %v", c.height), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, aSolidBitmap(DotsPerLine, c.height, 1)); err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			wantLen := len(lineSpacingCmd) + c.bands*(len(bandHeader)+bandDataLen+1)
			if buf.Len() != wantLen {
				t.Errorf("stream length = %v, want %v (%v bands)", buf.Len(), wantLen, c.bands)
			}
		})
	}
}

// The final band of a 25-row bitmap holds only one real row; rows 1-23
// of the band must encode as blank.
func TestEncodeShortFinalBand(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, aSolidBitmap(DotsPerLine, 25, 1)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	secondBand := buf.Bytes()[len(lineSpacingCmd)+len(bandHeader)+bandDataLen+1:]
	data := secondBand[len(bandHeader) : len(bandHeader)+bandDataLen]

	for x := 0; x < DotsPerLine; x++ {
		col := data[3*x : 3*x+3]
		// only the MSB of the first byte (row 24 of the bitmap) is set
		if col[0] != 0x80 || col[1] != 0x00 || col[2] != 0x00 {
			t.Fatalf("column %v = %x, want 80 00 00", x, col)
		}
	}
}

func TestPackColumnBitOrder(t *testing.T) {
	for _, row := range []int{0, 1, 7, 8, 15, 16, 23} {
		pixels := make([][]byte, 24)
		for y := range pixels {
			pixels[y] = make([]byte, 1)
		}
		pixels[row][0] = 1
		b := bitmap.FromRows(pixels, 1)

		col := packColumn(b, 0, 0)
		wantByte := row / 8
		wantBit := byte(1) << (7 - row%8)
		for k := range 3 {
			var want byte
			if k == wantByte {
				want = wantBit
			}
			if col[k] != want {
				t.Errorf("row %v: byte %v = %08b, want %08b", row, k, col[k], want)
			}
		}
	}
}

func TestEncodeRejectsBadBitmaps(t *testing.T) {
	var buf bytes.Buffer

	err := Encode(&buf, aSolidBitmap(100, 24, 1))
	if !errors.Is(err, ErrWrongWidth) {
		t.Errorf("expected ErrWrongWidth, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("bytes were written before the width check failed")
	}

	err = Encode(&buf, bitmap.FromRows(nil, DotsPerLine))
	if !errors.Is(err, ErrEmptyBitmap) {
		t.Errorf("expected ErrEmptyBitmap, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("bytes were written before the height check failed")
	}
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("device went away")
}

func TestEncodePropagatesTransportFailure(t *testing.T) {
	w := &failingWriter{}
	err := Encode(w, aSolidBitmap(DotsPerLine, 48, 1))
	if err == nil {
		t.Fatal("expected transport error")
	}
	// bufio retries are not expected; the failure aborts the job
	if w.writes > 2 {
		t.Errorf("encoder kept writing after failure: %v writes", w.writes)
	}
}

func TestEncodePackedBitmapMatchesPixelBitmap(t *testing.T) {
	pixels := make([][]byte, 30)
	for y := range pixels {
		row := make([]byte, DotsPerLine)
		for x := range row {
			row[x] = byte((x + y) % 2)
		}
		pixels[y] = row
	}
	pb := bitmap.FromRows(pixels, DotsPerLine)

	var plain, packed bytes.Buffer
	if err := Encode(&plain, pb); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := Encode(&packed, bitmap.Pack(pb)); err != nil {
		t.Fatalf("encode of packed bitmap failed: %v", err)
	}

	if !bytes.Equal(plain.Bytes(), packed.Bytes()) {
		t.Error("packed and unpacked bitmaps encoded differently")
	}
}
