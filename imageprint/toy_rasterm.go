//go:build go1.13 && !windows
// +build go1.13,!windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/golang/glog"
)

func isTermItermWez() bool {
	return rasterm.IsTermItermWez()
}

// PrintRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty terminal.
func PrintRasTerm(w io.Writer, i image.Image) {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, i); err != nil {
			glog.Errorf("imageprint: kitty: %v", err)
		}
		fmt.Fprint(w, "\n")
		return
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, i); err != nil {
			glog.Errorf("imageprint: iterm: %v", err)
		}
		fmt.Fprint(w, "\n")
		return
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.Point{})

		if err := (rasterm.Settings{}).SixelWriteImage(w, palettedImage); err != nil {
			glog.Errorf("imageprint: sixel: %v", err)
		}
		fmt.Fprint(w, "\n")
		return
	}
	glog.V(1).Infof("imageprint: no raster protocol detected, falling back to cells")
	Print24bit(w, i, true)
}
