package aseprite

import (
	"image"
	"image/color"
)

// Palette is the 256-slot colour table used by indexed sprites. Entries are
// stored premultiplied, exactly as they will appear in decoded cels.
type Palette [256]color.RGBA

// ColorPalette returns the table as a color.Palette.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i := range p {
		cp[i] = p[i]
	}
	return cp
}

func isBitSet(v uint32, pos uint) bool {
	return v&(1<<pos) != 0
}

// fromNonPremultiplied scales straight-alpha channels by alpha, truncating.
func fromNonPremultiplied(r, g, b, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(int(r) * int(a) / 255),
		G: uint8(int(g) * int(a) / 255),
		B: uint8(int(b) * int(a) / 255),
		A: a,
	}
}

// convertInto writes len(pix)/4 pixels decoded from raw into pix, laid out as
// image.RGBA.Pix.
func convertInto(pix []uint8, mode ColorMode, raw []byte, pal *Palette) {
	n := len(pix) / 4
	switch mode {
	case ModeRGBA:
		for i, b := 0, 0; i < n; i, b = i+1, b+4 {
			c := fromNonPremultiplied(raw[b+0], raw[b+1], raw[b+2], raw[b+3])
			pix[i*4+0], pix[i*4+1], pix[i*4+2], pix[i*4+3] = c.R, c.G, c.B, c.A
		}
	case ModeGrayscale:
		for i, b := 0, 0; i < n; i, b = i+1, b+2 {
			v := uint8(int(raw[b+0]) * int(raw[b+1]) / 255)
			pix[i*4+0], pix[i*4+1], pix[i*4+2], pix[i*4+3] = v, v, v, raw[b+1]
		}
	case ModeIndexed:
		for i := 0; i < n; i++ {
			c := pal[raw[i]]
			pix[i*4+0], pix[i*4+1], pix[i*4+2], pix[i*4+3] = c.R, c.G, c.B, c.A
		}
	}
}

// ConvertPixels decodes a raw cel buffer into premultiplied RGBA pixels.
//
// RGBA input is premultiplied with truncating integer division, grayscale
// becomes (v*a/255, v*a/255, v*a/255, a), and indexed input is looked up in
// pal as is. A nil pal is all transparent. A trailing partial pixel in raw is
// ignored.
func ConvertPixels(mode ColorMode, raw []byte, pal *Palette) []color.RGBA {
	if !mode.valid() {
		return nil
	}
	if pal == nil {
		pal = &Palette{}
	}
	n := len(raw) / mode.BytesPerPixel()
	pix := make([]uint8, n*4)
	convertInto(pix, mode, raw, pal)

	out := make([]color.RGBA, n)
	for i := range out {
		out[i] = color.RGBA{pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3]}
	}
	return out
}

// newCelImage builds the pixel buffer of a w x h cel. raw must hold at least
// w*h*mode.BytesPerPixel() bytes.
func newCelImage(mode ColorMode, raw []byte, pal *Palette, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	convertInto(img.Pix, mode, raw, pal)
	return img
}
