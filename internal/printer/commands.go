// This file implements the ESC/POS command byte sequences understood by
// POS-58 class thermal receipt printers.
package printer

// Control characters
const (
	Esc      = 0x1B
	LineFeed = 0x0A
)

// Physical printable line of the device: 48 bytes, 8 dots per byte.
const (
	BytesPerLine = 48
	DotsPerLine  = BytesPerLine * 8
)

// BandRows is the number of pixel rows printed by one raster command in
// the 24-dot triple-density mode.
const BandRows = 24

// DotsPerCm is the nominal dot pitch of the device (203 dpi).
const DotsPerCm = 80

// Sets the spacing added between printed lines to n dots. Raster bands
// must be printed with zero spacing or the image comes out with gaps.
func setLineSpacing(n byte) []byte {
	return []byte{Esc, 0x33, n}
}

// Starts a 24-dot triple-density raster band. The 16-bit little-endian
// count is the number of data bytes that follow: three bytes for every
// column, one per group of 8 rows.
func rasterBandHeader(width int) []byte {
	n := uint16(3 * width)
	return []byte{Esc, 0x2A, 0x21, byte(n & 0xFF), byte(n >> 8)}
}
