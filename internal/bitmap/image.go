package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// ImageBitmap adapts a two-color paletted image to the Bitmap interface.
type ImageBitmap struct {
	image *image.Paletted
	// colorMap[i] is the bit value of the palette color at index i. A set
	// bit prints as a black dot, so the palette color closest to white
	// maps to 0.
	colorMap [2]byte
}

func (b *ImageBitmap) Width() int {
	return b.image.Rect.Dx()
}

func (b *ImageBitmap) Height() int {
	return b.image.Rect.Dy()
}

func (b *ImageBitmap) GetBit(x int, y int) byte {
	return b.colorMap[b.image.ColorIndexAt(x, y)]
}

func FromPaletted(i *image.Paletted) (*ImageBitmap, error) {
	if len(i.Palette) != 2 {
		return nil, fmt.Errorf("Image passed to FromPaletted must have only 2 colours in palette")
	}

	var colorMap [2]byte
	if i.Palette.Index(color.White) == 0 {
		colorMap = [2]byte{0, 1}
	} else {
		colorMap = [2]byte{1, 0}
	}

	return &ImageBitmap{
		image:    i,
		colorMap: colorMap,
	}, nil
}

// FromImage converts any decoded image to a byte-per-pixel bitmap by
// luminance threshold; pixels darker than the threshold are set. This
// is the path for bilevel PNG input, where no dithering is wanted.
func FromImage(i image.Image, threshold uint8) *PixelBitmap {
	bounds := i.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	pixels := make([][]byte, height)
	for y := range height {
		row := make([]byte, width)
		for x := range width {
			if luminance(i.At(bounds.Min.X+x, bounds.Min.Y+y)) < threshold {
				row[x] = 1
			}
		}
		pixels[y] = row
	}

	return FromRows(pixels, width)
}

func luminance(c color.Color) uint8 {
	if gray, ok := c.(color.Gray); ok {
		return gray.Y
	}
	r, g, b, _ := c.RGBA()
	return uint8(((299*r + 587*g + 114*b) / 1000) >> 8)
}

// RenderForDevice turns an arbitrary image into a two-color paletted
// image at the device width, scaling, gamma-correcting and dithering
// along the way.
func RenderForDevice(i image.Image, deviceWidth int) *image.Paletted {
	newWidth := i.Bounds().Dx()
	if newWidth > deviceWidth {
		newWidth = deviceWidth
	}
	scaledBounds := image.Rect(0, 0, newWidth, i.Bounds().Dy()*newWidth/i.Bounds().Dx())
	scaledImage := image.NewRGBA(scaledBounds)
	draw.CatmullRom.Scale(scaledImage, scaledBounds, i, i.Bounds(), draw.Over, nil)

	// Thermal output comes out darker than a display, so lift the
	// midtones before dithering. 0.5 looks empirically close.
	monochromeImage := image.NewGray16(scaledBounds)
	for y := scaledBounds.Min.Y; y < scaledBounds.Max.Y; y++ {
		for x := scaledBounds.Min.X; x < scaledBounds.Max.X; x++ {
			grayColor := color.Gray16Model.Convert(scaledImage.At(x, y)).(color.Gray16)
			grayValue := float64(grayColor.Y) / float64(0xFFFF)
			scaledGrayValue := math.Pow(grayValue, 0.5)
			monochromeImage.Set(x, y, color.Gray16{Y: uint16(scaledGrayValue * float64(0xFFFF))})
		}
	}

	palette := []color.Color{color.Black, color.White}
	ditherer := dither.NewDitherer(palette)
	ditherer.Matrix = dither.FloydSteinberg
	ditherer.Serpentine = true

	return ditherer.DitherPaletted(monochromeImage)
}
