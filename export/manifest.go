package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-aseprite/aseprite"
)

// Manifest describes a sprite for consumers that read the sprite sheet
// instead of the .aseprite file.
type Manifest struct {
	Name   string      `json:"name"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Mode   string      `json:"mode"`
	Frames []FrameInfo `json:"frames"`
	Layers []LayerInfo `json:"layers"`
	Tags   []TagInfo   `json:"tags,omitempty"`
	Slices []SliceInfo `json:"slices,omitempty"`
}

// Rect is a pixel rectangle given by its top-left corner and size.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func rectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FrameInfo describes one frame in file order.
type FrameInfo struct {
	Index      int   `json:"index"`
	DurationMS int64 `json:"duration_ms"`
	// Sheet is where the frame sits on the strip Sheet produces.
	Sheet Rect `json:"sheet"`
	// Image is a PNG data URL of the composited frame, only when inlined.
	Image string `json:"image,omitempty"`
}

// UserDataInfo is the note attached to a layer or slice. Color uses the
// same #rrggbb[aa] form as tag colours.
type UserDataInfo struct {
	Text  string `json:"text,omitempty"`
	Color string `json:"color,omitempty"`
}

// LayerInfo describes one layer; Visible already accounts for hidden
// parent groups.
type LayerInfo struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	ChildLevel int           `json:"child_level"`
	Visible    bool          `json:"visible"`
	BlendMode  string        `json:"blend_mode"`
	Opacity    float32       `json:"opacity"`
	UserData   *UserDataInfo `json:"user_data,omitempty"`
}

// TagInfo is a named frame range and how it plays.
type TagInfo struct {
	Name      string `json:"name"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Direction string `json:"direction"`
	Repeat    int    `json:"repeat,omitempty"`
	Color     string `json:"color"`
}

// SliceInfo is one slice key: the slice name repeats once per keyed frame.
type SliceInfo struct {
	Name     string        `json:"name"`
	Frame    int           `json:"frame"`
	Bounds   Rect          `json:"bounds"`
	Pivot    *Point        `json:"pivot,omitempty"`
	UserData *UserDataInfo `json:"user_data,omitempty"`
}

// NewManifest describes doc. With inline set every frame also carries its
// composite as a PNG data URL.
func NewManifest(doc *aseprite.Document, name string, inline bool) (*Manifest, error) {
	m := &Manifest{
		Name:   name,
		Width:  doc.Width,
		Height: doc.Height,
		Mode:   doc.Mode.String(),
		Frames: make([]FrameInfo, 0, len(doc.Frames)),
		Layers: make([]LayerInfo, 0, len(doc.Layers)),
	}

	for i, f := range doc.Frames {
		fi := FrameInfo{
			Index:      i,
			DurationMS: f.Duration.Milliseconds(),
			Sheet:      Rect{X: i * doc.Width, W: doc.Width, H: doc.Height},
		}
		if inline {
			img, err := doc.FrameImage(i)
			if err != nil {
				return nil, err
			}
			buf := &bytes.Buffer{}
			if err := png.Encode(buf, img); err != nil {
				return nil, errors.Wrapf(err, "encoding frame %d", i)
			}
			fi.Image = dataurl.New(buf.Bytes(), "image/png").String()
		}
		m.Frames = append(m.Frames, fi)
	}

	for i := range doc.Layers {
		l := &doc.Layers[i]
		m.Layers = append(m.Layers, LayerInfo{
			Name:       l.Name,
			Type:       l.Type.String(),
			ChildLevel: l.ChildLevel,
			Visible:    doc.LayerShown(i),
			BlendMode:  l.BlendMode.String(),
			Opacity:    l.Opacity,
			UserData:   userData(l.UserData),
		})
	}

	for _, t := range doc.Tags {
		m.Tags = append(m.Tags, TagInfo{
			Name:      t.Name,
			From:      t.From,
			To:        t.To,
			Direction: t.LoopDirection.String(),
			Repeat:    t.Repeat,
			Color:     hex(t.Color),
		})
	}

	for i := range doc.Slices {
		s := &doc.Slices[i]
		var pivot *Point
		if s.Pivot != nil {
			pivot = &Point{X: s.Pivot.X, Y: s.Pivot.Y}
		}
		m.Slices = append(m.Slices, SliceInfo{
			Name:     s.Name,
			Frame:    s.Frame,
			Bounds:   rectOf(s.Bounds()),
			Pivot:    pivot,
			UserData: userData(s.UserData),
		})
	}
	return m, nil
}

// Encode writes m as indented JSON.
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func userData(ud aseprite.UserData) *UserDataInfo {
	if ud == (aseprite.UserData{}) {
		return nil
	}
	info := &UserDataInfo{Text: ud.Text}
	if ud.Color != (color.RGBA{}) {
		info.Color = hex(ud.Color)
	}
	return info
}

// hex formats c as #rrggbb, or #rrggbbaa when not opaque. Channels are
// premultiplied, as decoded.
func hex(c color.RGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
