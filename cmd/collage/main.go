// Command collage cuts every strip of a scene out of the reference
// image and writes each one to its own PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Masterchef365/receipt-collage/internal/printer"
	"github.com/Masterchef365/receipt-collage/internal/scene"
	"github.com/Masterchef365/receipt-collage/internal/strip"
)

func main() {
	scenePath := flag.String("scene", "scene.json", "path to the scene document")
	imagePath := flag.String("image", "", "path to the reference image (PNG)")
	outDir := flag.String("out", ".", "directory the strip images are written to")
	dotsPerCm := flag.Float64("dpcm", printer.DotsPerCm, "output dot density per centimeter")
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "collage: -image is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*scenePath, *imagePath, *outDir, *dotsPerCm); err != nil {
		slog.Error("Couldn't export strips", "error", err)
		os.Exit(1)
	}
}

func run(scenePath, imagePath, outDir string, dotsPerCm float64) error {
	sc, err := scene.LoadDocument(scenePath)
	if err != nil {
		return err
	}

	ref, err := loadImage(imagePath)
	if err != nil {
		return err
	}

	bounds := ref.Bounds()
	if bounds.Dx() != sc.Dims.Resolution[0] || bounds.Dy() != sc.Dims.Resolution[1] {
		slog.Warn("Reference image resolution doesn't match scene dimensions",
			"image", fmt.Sprintf("%vx%v", bounds.Dx(), bounds.Dy()),
			"scene", fmt.Sprintf("%vx%v", sc.Dims.Resolution[0], sc.Dims.Resolution[1]),
		)
	}

	slog.Info("Rendering strips",
		"count", len(sc.Strips),
		"dotsPerCm", dotsPerCm,
	)

	for i := range sc.Strips {
		out := strip.Render(ref, sc.Dims, &sc.Strips[i], dotsPerCm)

		path := filepath.Join(outDir, fmt.Sprintf("strip_%d.png", i))
		if err := saveImage(path, out); err != nil {
			return err
		}
		slog.Info("Wrote strip",
			"path", path,
			"width", out.Bounds().Dx(),
			"height", out.Bounds().Dy(),
		)
	}

	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open reference image:\n%w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("Couldn't decode reference image %s:\n%w", path, err)
	}
	return img, nil
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Couldn't create output file:\n%w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("Couldn't encode strip image %s:\n%w", path, err)
	}
	return nil
}
