package export

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/bradfitz/iter"

	"badc0de.net/pkg/go-aseprite/aseprite"
)

// Sheet lays every composited frame out left to right on one transparent
// strip. The returned rectangles give each frame's place on the strip.
func Sheet(doc *aseprite.Document) (*image.RGBA, []image.Rectangle, error) {
	if len(doc.Frames) == 0 {
		return nil, nil, fmt.Errorf("export: sprite has no frames")
	}
	sheet := image.NewRGBA(image.Rect(0, 0, doc.Width*len(doc.Frames), doc.Height))
	rects := make([]image.Rectangle, 0, len(doc.Frames))
	for i := range iter.N(len(doc.Frames)) {
		img, err := doc.FrameImage(i)
		if err != nil {
			return nil, nil, err
		}
		r := image.Rect(i*doc.Width, 0, (i+1)*doc.Width, doc.Height)
		draw.Draw(sheet, r, img, image.Point{}, draw.Src)
		rects = append(rects, r)
	}
	return sheet, rects, nil
}
