package main

import (
	"image"

	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-aseprite/imageprint"
)

func outputMode() imageprint.Mode {
	switch {
	case *rasterm:
		return imageprint.RasTerm
	case !*col:
		return imageprint.NoColor
	case *iterm:
		return imageprint.ITerm
	case *col256:
		return imageprint.Color256
	}
	return imageprint.TrueColor
}

// fit shrinks img to the terminal when -downsize is set. Cell output uses two
// columns per pixel.
func fit(img image.Image) image.Image {
	if !*downsize {
		return img
	}
	termSize, err := GetTermSize()
	if err != nil {
		return img
	}
	if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && (*rasterm || *iterm) {
		// Prefer printing out in native size if there's a chance we print out an image rather than pixels.
		return resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.Lanczos3)
	}
	// Leave a line for the caption.
	rows := termSize.WSRow
	if rows > 1 {
		rows--
	}
	return resize.Thumbnail(termSize.WSCol/2, rows, img, resize.NearestNeighbor)
}
