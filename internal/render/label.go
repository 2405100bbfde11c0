// Package render draws caption text into a two-color image of the
// printer's width so it can be printed above a bitmap.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const fontDPI = 203 // the device's dot pitch

func wrapText(text string, maxWidth int, face font.Face) []string {
	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return lines
	}

	var line string
	for _, word := range words {
		testLine := line
		if len(line) > 0 {
			testLine += " "
		}
		testLine += word

		width := font.MeasureString(face, testLine).Ceil()
		if width > maxWidth && len(line) > 0 && maxWidth > 0 {
			lines = append(lines, line)
			line = word
		} else {
			line = testLine
		}
	}

	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func loadFace(sizePt float64) (font.Face, error) {
	parsedFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse builtin font:\n%w", err)
	}

	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("Couldn't create font face:\n%w", err)
	}

	return face, nil
}

// Label renders the text into a black-on-white paletted image of
// exactly the given pixel width, wrapping onto further lines when the
// text doesn't fit.
func Label(text string, width int, sizePt float64) (*image.Paletted, error) {
	face, err := loadFace(sizePt)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	lines := wrapText(text, width, face)
	if len(lines) == 0 {
		return nil, fmt.Errorf("Label text is empty")
	}

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	height := lineHeight * len(lines)

	canvas := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{color.White, color.Black})
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	d.Dot = fixed.Point26_6{X: 0, Y: 0}
	for _, line := range lines {
		d.Dot.X = 0
		d.Dot.Y += metrics.Ascent
		d.DrawString(line)
		d.Dot.Y += metrics.Descent
	}

	return canvas, nil
}
