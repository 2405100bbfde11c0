// Command print sends 1-bit bitmaps to the receipt printer: each path
// argument is loaded, converted and encoded after an operator
// confirmation.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"github.com/Masterchef365/receipt-collage/internal/bitmap"
	"github.com/Masterchef365/receipt-collage/internal/printer"
	"github.com/Masterchef365/receipt-collage/internal/render"
)

// Pixels darker than this count as ink when loading bilevel input.
const inkThreshold = 128

func main() {
	deviceName := flag.String("device", "POS58", "bluetooth local name of the printer")
	outPath := flag.String("o", "", "write the raw byte stream to a file instead of a printer")
	ditherInput := flag.Bool("dither", false, "accept arbitrary images, scale and dither them to the device width")
	label := flag.String("label", "", "print this caption before each image")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "print: no input images given")
		flag.Usage()
		os.Exit(2)
	}

	out, cleanup, err := openTransport(*deviceName, *outPath)
	if err != nil {
		slog.Error("Couldn't open printer transport", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	stdin := bufio.NewScanner(os.Stdin)
	for _, path := range flag.Args() {
		fmt.Printf("Press enter when ready to print %s\n", path)
		stdin.Scan()

		if err := printOne(out, path, *ditherInput, *label); err != nil {
			slog.Error("Couldn't print image", "path", path, "error", err)
			os.Exit(1)
		}
	}
}

func openTransport(deviceName, outPath string) (io.Writer, func(), error) {
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return nil, nil, fmt.Errorf("Couldn't create output file:\n%w", err)
		}
		return f, func() { f.Close() }, nil
	}

	conn, err := printer.FromBluetoothName(deviceName)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.Connect(); err != nil {
		return nil, nil, err
	}
	return conn, func() { conn.Disconnect() }, nil
}

func printOne(out io.Writer, path string, ditherInput bool, label string) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	var b bitmap.Bitmap
	if ditherInput {
		paletted := bitmap.RenderForDevice(img, printer.DotsPerLine)
		ib, err := bitmap.FromPaletted(paletted)
		if err != nil {
			return err
		}
		b = bitmap.Pack(ib)
	} else {
		b = bitmap.Pack(bitmap.FromImage(img, inkThreshold))
	}

	if label != "" {
		caption, err := render.Label(label, printer.DotsPerLine, 12)
		if err != nil {
			return err
		}
		cb, err := bitmap.FromPaletted(caption)
		if err != nil {
			return err
		}
		if err := printer.Encode(out, bitmap.Pack(cb)); err != nil {
			return err
		}
	}

	return printer.Encode(out, b)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open image:\n%w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("Couldn't decode %s:\n%w", path, err)
	}
	return img, nil
}
