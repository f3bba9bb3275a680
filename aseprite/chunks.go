package aseprite

// This file contains one decoder per chunk kind. Each reads from the current
// cursor and appends to, or mutates, the document under construction.

import (
	"image"
	"io"

	"github.com/golang/glog"
	"github.com/klauspost/compress/flate"
)

// Upper bound on the inflate ratio of a DEFLATE stream.
const maxInflateRatio = 1032

type layerHeader struct {
	Flags      uint16
	Type       uint16
	ChildLevel uint16
	_          uint16 // width, unused
	_          uint16 // height, unused
	BlendMode  uint16
	Opacity    uint8
	_          [3]byte
}

func (d *decoder) decodeLayer() error {
	var h layerHeader
	if err := d.r.fixed(&h); err != nil {
		return err
	}
	name, err := d.r.str()
	if err != nil {
		return err
	}

	d.doc.Layers = append(d.doc.Layers, Layer{
		Name:       name,
		Flags:      LayerFlags(h.Flags),
		Type:       LayerType(h.Type),
		ChildLevel: int(h.ChildLevel),
		BlendMode:  BlendMode(h.BlendMode),
		Opacity:    float32(h.Opacity) / 255,
	})
	d.target = userDataRef{kind: targetLayer, index: len(d.doc.Layers) - 1}
	return nil
}

type celHeader struct {
	LayerIndex uint16
	X, Y       int16
	Opacity    uint8
	Type       uint16
	ZIndex     int16
	_          [5]byte
}

type celDimensions struct {
	Width, Height uint16
}

func (d *decoder) decodeCel(end int64) error {
	at := d.r.position()
	var h celHeader
	if err := d.r.fixed(&h); err != nil {
		return err
	}
	if int(h.LayerIndex) >= len(d.doc.Layers) {
		return newError(ErrDanglingReference, at, "cel references layer %d, only %d layers", h.LayerIndex, len(d.doc.Layers))
	}

	cel := Cel{
		LayerIndex:  int(h.LayerIndex),
		X:           int(h.X),
		Y:           int(h.Y),
		ZIndex:      int(h.ZIndex),
		Opacity:     float32(h.Opacity) / 255,
		Type:        CelType(h.Type),
		LinkedFrame: -1,
	}

	switch cel.Type {
	case CelRaw, CelCompressed:
		var dim celDimensions
		if err := d.r.fixed(&dim); err != nil {
			return err
		}
		cel.Width, cel.Height = int(dim.Width), int(dim.Height)
		n := cel.Width * cel.Height * d.doc.Mode.BytesPerPixel()

		if cel.Type == CelRaw {
			if int64(n) > d.r.remaining() {
				return newError(ErrUnexpectedEOF, d.r.position(), "raw cel needs %d bytes, have %d", n, d.r.remaining())
			}
			raw := d.scratchFor(n)
			if err := d.r.readFull(raw); err != nil {
				return err
			}
			cel.Image = newCelImage(d.doc.Mode, raw, &d.palette, cel.Width, cel.Height)
		} else {
			if err := d.r.skip(2); err != nil {
				return err
			}
			raw, err := d.inflate(n, end)
			if err != nil {
				return err
			}
			cel.Image = newCelImage(d.doc.Mode, raw, &d.palette, cel.Width, cel.Height)
		}

	case CelLinked:
		target, err := d.r.u16()
		if err != nil {
			return err
		}
		if int(target) >= d.frame {
			return newError(ErrDanglingReference, at, "cel in frame %d links to frame %d", d.frame, target)
		}
		src := findCel(d.doc.Frames[target].Cels, cel.LayerIndex)
		if src == nil {
			return newError(ErrDanglingReference, at, "frame %d has no cel on layer %d to link to", target, cel.LayerIndex)
		}
		cel.LinkedFrame = int(target)
		cel.Width, cel.Height = src.Width, src.Height
		cel.Image = src.Image

	default:
		glog.V(1).Infof("aseprite: %s cel on layer %d carries no pixels", cel.Type, cel.LayerIndex)
	}

	f := &d.doc.Frames[d.frame]
	f.Cels = append(f.Cels, cel)
	d.target = userDataRef{kind: targetCel, frame: d.frame, index: len(f.Cels) - 1}
	return nil
}

func findCel(cels []Cel, layer int) *Cel {
	for i := range cels {
		if cels[i].LayerIndex == layer {
			return &cels[i]
		}
	}
	return nil
}

// inflate decompresses exactly n bytes of the DEFLATE stream at the cursor,
// never reading past end.
func (d *decoder) inflate(n int, end int64) ([]byte, error) {
	at := d.r.position()
	span := end - at
	if span < 0 {
		span = 0
	}
	if int64(n) > span*maxInflateRatio+maxInflateRatio {
		return nil, newError(ErrDecompression, at, "%d compressed bytes cannot inflate to %d", span, n)
	}

	raw := d.scratchFor(n)
	fr := flate.NewReader(io.LimitReader(d.r, span))
	defer fr.Close()
	if _, err := io.ReadFull(fr, raw); err != nil {
		return nil, newError(ErrDecompression, at, "inflating %d bytes: %v", n, err)
	}
	return raw, nil
}

type paletteHeader struct {
	Size  uint32
	First uint32
	Last  uint32
	_     [8]byte
}

type paletteEntry struct {
	Flags      uint16
	R, G, B, A uint8
}

func (d *decoder) decodePalette() error {
	at := d.r.position()
	var h paletteHeader
	if err := d.r.fixed(&h); err != nil {
		return err
	}
	if h.First > h.Last || h.Last >= uint32(len(d.palette)) {
		return newError(ErrInvalidFormat, at, "palette range %d..%d outside 0..%d", h.First, h.Last, len(d.palette)-1)
	}

	for i := h.First; i <= h.Last; i++ {
		var e paletteEntry
		if err := d.r.fixed(&e); err != nil {
			return err
		}
		d.palette[i] = fromNonPremultiplied(e.R, e.G, e.B, e.A)
		if isBitSet(uint32(e.Flags), 0) {
			if _, err := d.r.str(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) decodeUserData() error {
	ud := d.userDataTarget()
	if ud == nil {
		return nil
	}
	flags, err := d.r.u32()
	if err != nil {
		return err
	}
	// Only one of text and colour is read; text wins when both bits are set.
	if isBitSet(flags, 0) {
		if ud.Text, err = d.r.str(); err != nil {
			return err
		}
	} else if isBitSet(flags, 1) {
		var c [4]uint8
		if err := d.r.readFull(c[:]); err != nil {
			return err
		}
		ud.Color = fromNonPremultiplied(c[0], c[1], c[2], c[3])
	}
	return nil
}

type tagsHeader struct {
	Count uint16
	_     [8]byte
}

type tagEntry struct {
	From, To  uint16
	Direction uint8
	Repeat    uint16
	_         [6]byte
	R, G, B   uint8
	_         uint8
}

func (d *decoder) decodeTags() error {
	var h tagsHeader
	if err := d.r.fixed(&h); err != nil {
		return err
	}
	for i := 0; i < int(h.Count); i++ {
		at := d.r.position()
		var e tagEntry
		if err := d.r.fixed(&e); err != nil {
			return err
		}
		name, err := d.r.str()
		if err != nil {
			return err
		}
		if e.From > e.To || int(e.To) >= d.frameCount {
			return newError(ErrInvalidFormat, at, "tag %q covers frames %d..%d of %d", name, e.From, e.To, d.frameCount)
		}
		d.doc.Tags = append(d.doc.Tags, Tag{
			Name:          name,
			From:          int(e.From),
			To:            int(e.To),
			LoopDirection: LoopDirection(e.Direction),
			Repeat:        int(e.Repeat),
			Color:         fromNonPremultiplied(e.R, e.G, e.B, 255),
		})
	}
	return nil
}

type sliceHeader struct {
	KeyCount uint32
	Flags    uint32
	_        uint32
}

type sliceKey struct {
	Frame         uint32
	X, Y          int32
	Width, Height uint32
}

// sliceCenter is the 9-slice centre rectangle; it is read and dropped.
type sliceCenter struct {
	_, _ int32
	_, _ uint32
}

type slicePivot struct {
	X, Y int32
}

func (d *decoder) decodeSlice() error {
	var h sliceHeader
	if err := d.r.fixed(&h); err != nil {
		return err
	}
	name, err := d.r.str()
	if err != nil {
		return err
	}

	for k := uint32(0); k < h.KeyCount; k++ {
		var key sliceKey
		if err := d.r.fixed(&key); err != nil {
			return err
		}
		s := Slice{
			Name:   name,
			Frame:  int(key.Frame),
			Origin: image.Pt(int(key.X), int(key.Y)),
			Width:  int(key.Width),
			Height: int(key.Height),
		}
		// As with user data, the 9-slice centre shadows the pivot.
		if isBitSet(h.Flags, 0) {
			var c sliceCenter
			if err := d.r.fixed(&c); err != nil {
				return err
			}
		} else if isBitSet(h.Flags, 1) {
			var p slicePivot
			if err := d.r.fixed(&p); err != nil {
				return err
			}
			s.Pivot = &image.Point{X: int(p.X), Y: int(p.Y)}
		}

		d.doc.Slices = append(d.doc.Slices, s)
		d.target = userDataRef{kind: targetSlice, index: len(d.doc.Slices) - 1}
	}
	return nil
}
