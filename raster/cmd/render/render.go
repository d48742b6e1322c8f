// Command render decodes a PWG raster stream's first page to a PNG on
// stdout, for inspecting the output this engine produces without a
// physical printer.
package main

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/ippsample/ipptransform/raster"
)

func main() {
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	d, err := raster.NewDecoder(f)
	if err != nil {
		log.Fatal(err)
	}

	p, err := d.NextPage()
	if err != nil {
		log.Fatal(err)
	}

	palette := color.Palette{color.Gray{Y: 255}, color.Gray{Y: 0}}
	img := image.NewPaletted(image.Rectangle{
		Min: image.Point{X: 0, Y: 0},
		Max: image.Point{X: int(p.Header.CUPSWidth), Y: int(p.Header.CUPSHeight)},
	}, palette)

	y := 0
	for {
		line, err := p.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		colors, err := p.ParseColors(line)
		if err != nil {
			log.Fatal(err)
		}
		for x, c := range colors {
			img.Set(x, y, c)
		}
		y++
		if y >= int(p.Header.CUPSHeight) {
			break
		}
	}

	if err := png.Encode(os.Stdout, img); err != nil {
		log.Fatal(err)
	}
}
