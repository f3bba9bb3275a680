package imageprint

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"badc0de.net/pkg/go-aseprite/aseprite"
)

// PrintFrame composites frame i of doc and draws it, preceded by a one line
// caption. scale, if not nil, may shrink the composite to fit the terminal.
func PrintFrame(w io.Writer, doc *aseprite.Document, i int, mode Mode, blanks bool, name string, scale func(image.Image) image.Image) error {
	img, err := doc.FrameImage(i)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s frame %d (%v)\n", name, i, doc.Frames[i].Duration)
	var out image.Image = img
	if scale != nil {
		out = scale(img)
	}
	Print(w, out, mode, blanks, fmt.Sprintf("%s-%d.png", name, i))
	return nil
}

// PrintInfo writes a human readable summary of doc: header, layers as an
// indented tree, frames with their cels, tags and slices.
func PrintInfo(w io.Writer, doc *aseprite.Document, name string) {
	fmt.Fprintf(w, "%s: %dx%d %s, %d frames, %d layers\n", name, doc.Width, doc.Height, doc.Mode, len(doc.Frames), len(doc.Layers))
	if doc.Mode == aseprite.ModeIndexed {
		fmt.Fprintf(w, "  palette: %d colors, transparent index %d\n", doc.ColorCount, doc.TransparentIndex)
	}

	fmt.Fprintf(w, "layers:\n")
	for i, l := range doc.Layers {
		fmt.Fprintf(w, "  %*s%d %q %s", 2*l.ChildLevel, "", i, l.Name, l.Type)
		if !doc.LayerShown(i) {
			fmt.Fprintf(w, " hidden")
		}
		if l.BlendMode != aseprite.BlendNormal {
			fmt.Fprintf(w, " blend=%s", l.BlendMode)
		}
		if l.Opacity < 1 {
			fmt.Fprintf(w, " opacity=%.2f", l.Opacity)
		}
		printUserData(w, l.UserData)
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "frames:\n")
	for i, f := range doc.Frames {
		fmt.Fprintf(w, "  %d %v:", i, f.Duration)
		for _, c := range f.Cels {
			if c.Type == aseprite.CelLinked {
				fmt.Fprintf(w, " [L%d -> %d]", c.LayerIndex, c.LinkedFrame)
				continue
			}
			fmt.Fprintf(w, " [L%d %s %dx%d@%d,%d]", c.LayerIndex, c.Type, c.Width, c.Height, c.X, c.Y)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(doc.Tags) > 0 {
		fmt.Fprintf(w, "tags:\n")
		for _, t := range doc.Tags {
			fmt.Fprintf(w, "  %q %d..%d %s", t.Name, t.From, t.To, t.LoopDirection)
			if t.Repeat > 0 {
				fmt.Fprintf(w, " x%d", t.Repeat)
			}
			fmt.Fprintf(w, "\n")
		}
	}
	if len(doc.Slices) > 0 {
		fmt.Fprintf(w, "slices:\n")
		for _, s := range doc.Slices {
			fmt.Fprintf(w, "  %q frame %d %v", s.Name, s.Frame, s.Bounds())
			if s.Pivot != nil {
				fmt.Fprintf(w, " pivot %v", *s.Pivot)
			}
			printUserData(w, s.UserData)
			fmt.Fprintf(w, "\n")
		}
	}
}

func printUserData(w io.Writer, ud aseprite.UserData) {
	if c := ud.Color; c != (color.RGBA{}) {
		fmt.Fprintf(w, " color=#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	if ud.Text != "" {
		fmt.Fprintf(w, " // %s", ud.Text)
	}
}
