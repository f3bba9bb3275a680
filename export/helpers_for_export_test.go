package export

import (
	"image"
	"image/color"
	"time"

	"badc0de.net/pkg/go-aseprite/aseprite"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func onePixel(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// testDoc is a 2x1 sprite with one layer and three frames: a red pixel at
// the left, a green one, and a frame linked back to the first.
func testDoc() *aseprite.Document {
	first := onePixel(red)
	cel := func(img *image.RGBA, linked int) aseprite.Cel {
		typ := aseprite.CelRaw
		if linked >= 0 {
			typ = aseprite.CelLinked
		}
		return aseprite.Cel{Opacity: 1, Type: typ, LinkedFrame: linked, Width: 1, Height: 1, Image: img}
	}
	return &aseprite.Document{
		Mode:       aseprite.ModeRGBA,
		Width:      2,
		Height:     1,
		Flags:      1,
		ColorCount: 256,
		Layers: []aseprite.Layer{{
			Name:     "body",
			Flags:    aseprite.LayerVisible,
			Opacity:  1,
			UserData: aseprite.UserData{Text: "main"},
		}},
		Frames: []aseprite.Frame{
			{Duration: 100 * time.Millisecond, Cels: []aseprite.Cel{cel(first, -1)}},
			{Duration: 55 * time.Millisecond, Cels: []aseprite.Cel{cel(onePixel(green), -1)}},
			{Duration: 0, Cels: []aseprite.Cel{cel(first, 0)}},
		},
		Tags: []aseprite.Tag{
			{Name: "all", From: 0, To: 2, LoopDirection: aseprite.LoopForward, Color: color.RGBA{A: 255}},
			{Name: "bounce", From: 0, To: 2, LoopDirection: aseprite.LoopPingPong, Color: color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 255}},
			{Name: "rewind", From: 0, To: 1, LoopDirection: aseprite.LoopReverse, Repeat: 3},
			{Name: "bounce back", From: 0, To: 2, LoopDirection: aseprite.LoopPingPongReverse, Repeat: 1},
			{Name: "still", From: 1, To: 1, LoopDirection: aseprite.LoopPingPong},
		},
		Slices: []aseprite.Slice{
			{Name: "hit", Frame: 0, Origin: image.Pt(0, 0), Width: 1, Height: 1, Pivot: &image.Point{X: 1, Y: 0}},
		},
	}
}
