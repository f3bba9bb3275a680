package aseprite

// This file contains the parts of the package related to image.Image: format
// registration with the image package, and compositing a frame's cels into a
// single canvas-sized picture.

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"sort"
)

func init() {
	// Magic 0xA5E0 sits after the 4-byte file size.
	image.RegisterFormat("aseprite", "????\xe0\xa5", DecodeImage, DecodeConfig)
}

// DecodeConfig returns the canvas size of a sprite without decoding frames.
// Frames always decode to premultiplied RGBA, whatever the file's mode.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var h fileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return image.Config{}, fmt.Errorf("aseprite: could not read header: %s", err)
	}
	if h.Magic != FileMagic {
		return image.Config{}, fmt.Errorf("aseprite: bad magic number; got 0x%04x, want 0x%04x", h.Magic, FileMagic)
	}
	return image.Config{Width: int(h.Width), Height: int(h.Height), ColorModel: color.RGBAModel}, nil
}

// DecodeImage returns the composited first frame of a sprite.
func DecodeImage(r io.Reader) (image.Image, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if len(doc.Frames) == 0 {
		return nil, fmt.Errorf("aseprite: sprite has no frames")
	}
	return doc.FrameImage(0)
}

// FrameImage composites frame i onto a transparent canvas: cels of visible
// pixel layers, bottom layer first (adjusted by cel z-index), each scaled by
// cel and layer opacity and drawn with Porter-Duff over. Blend modes other
// than normal are drawn as normal.
func (d *Document) FrameImage(i int) (*image.RGBA, error) {
	if i < 0 || i >= len(d.Frames) {
		return nil, fmt.Errorf("aseprite: frame %d out of range [0,%d)", i, len(d.Frames))
	}
	dst := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))

	cels := make([]*Cel, 0, len(d.Frames[i].Cels))
	for j := range d.Frames[i].Cels {
		c := &d.Frames[i].Cels[j]
		if c.Image == nil || !d.LayerShown(c.LayerIndex) || d.Layers[c.LayerIndex].Type == LayerGroup {
			continue
		}
		cels = append(cels, c)
	}
	sort.SliceStable(cels, func(a, b int) bool {
		oa, ob := cels[a].LayerIndex+cels[a].ZIndex, cels[b].LayerIndex+cels[b].ZIndex
		if oa == ob {
			return cels[a].ZIndex < cels[b].ZIndex
		}
		return oa < ob
	})

	useLayerOpacity := isBitSet(d.Flags, headerFlagLayerOpacityBit)
	for _, c := range cels {
		opacity := c.Opacity
		if useLayerOpacity {
			opacity *= d.Layers[c.LayerIndex].Opacity
		}
		mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
		r := c.Image.Bounds().Add(image.Pt(c.X, c.Y))
		draw.DrawMask(dst, r, c.Image, image.Point{}, mask, image.Point{}, draw.Over)
	}
	return dst, nil
}

// LayerShown reports whether layer idx and every group above it are
// visible. Parents are found by walking back to the nearest layer one child
// level up.
func (d *Document) LayerShown(idx int) bool {
	if idx < 0 || idx >= len(d.Layers) {
		return false
	}
	if !d.Layers[idx].Visible() {
		return false
	}
	level := d.Layers[idx].ChildLevel
	for j := idx - 1; j >= 0 && level > 0; j-- {
		if d.Layers[j].ChildLevel == level-1 {
			if !d.Layers[j].Visible() {
				return false
			}
			level--
		}
	}
	return true
}
