package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-aseprite/aseprite"
)

// GIF renders the frames of the named tag, or of the whole sprite when tag is
// empty, as an animated GIF. Index 0 of every frame palette is transparent.
//
// Indexed sprites keep their own palette (all but the last colour if the
// sprite uses all 256). Other sprites are median-cut quantized frame by
// frame down to 255 colours.
func GIF(doc *aseprite.Document, tag string) (*gif.GIF, error) {
	order, loop, err := FrameOrder(doc, tag)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("export: sprite has no frames")
	}

	g := &gif.GIF{
		LoopCount: loop,
		Config:    image.Config{Width: doc.Width, Height: doc.Height},
	}

	var shared color.Palette
	if doc.Mode == aseprite.ModeIndexed {
		shared = indexedPalette(doc)
		g.Config.ColorModel = shared
	}

	// Linked frames, and ping-pong passes, reuse composites.
	same := sameComposites(doc)
	rendered := make(map[int]*image.Paletted)
	for _, fr := range order {
		pm, ok := rendered[same[fr]]
		if !ok {
			img, err := doc.FrameImage(fr)
			if err != nil {
				return nil, err
			}
			pal := shared
			if pal == nil {
				q := quantize.MedianCutQuantizer{}
				pal = append(color.Palette{color.Transparent}, q.Quantize(make(color.Palette, 0, 255), img)...)
			}
			pm = image.NewPaletted(img.Bounds(), pal)
			draw.Draw(pm, img.Bounds(), img, image.Point{}, draw.Src)
			rendered[same[fr]] = pm
		}
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, delay(doc.Frames[fr].Duration))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0 // color.Transparent

	glog.V(1).Infof("export: gif of %d frames (tag %q)", len(g.Image), tag)
	return g, nil
}

// sameComposites maps every frame to the earliest frame that composites to
// the same picture.
func sameComposites(doc *aseprite.Document) []int {
	same := make([]int, len(doc.Frames))
	for i := range doc.Frames {
		same[i] = i
		if k, ok := linkedCopy(doc, i); ok {
			same[i] = same[k]
		}
	}
	return same
}

// linkedCopy reports whether every cel of frame fr links, unchanged, to a
// cel of one earlier frame that has no other cels.
func linkedCopy(doc *aseprite.Document, fr int) (int, bool) {
	cels := doc.Frames[fr].Cels
	if len(cels) == 0 {
		return 0, false
	}
	k := cels[0].LinkedFrame
	if k < 0 || k >= fr || len(doc.Frames[k].Cels) != len(cels) {
		return 0, false
	}
	for _, c := range cels {
		if c.LinkedFrame != k {
			return 0, false
		}
		src := celOnLayer(doc.Frames[k].Cels, c.LayerIndex)
		if src == nil || src.Image != c.Image || src.X != c.X || src.Y != c.Y ||
			src.Opacity != c.Opacity || src.ZIndex != c.ZIndex {
			return 0, false
		}
	}
	return k, true
}

func celOnLayer(cels []aseprite.Cel, layer int) *aseprite.Cel {
	for i := range cels {
		if cels[i].LayerIndex == layer {
			return &cels[i]
		}
	}
	return nil
}

func indexedPalette(doc *aseprite.Document) color.Palette {
	n := doc.ColorCount
	if n > 255 {
		n = 255
	}
	pal := make(color.Palette, 0, n+1)
	pal = append(pal, color.Transparent)
	for i := 0; i < n; i++ {
		pal = append(pal, doc.Palette[i])
	}
	return pal
}

// delay converts a frame duration to GIF hundredths of a second, rounding
// to nearest.
func delay(d time.Duration) int {
	return int((d + 5*time.Millisecond) / (10 * time.Millisecond))
}
