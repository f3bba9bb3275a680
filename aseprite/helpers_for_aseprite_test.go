package aseprite

// Builders for synthetic .aseprite streams used across the tests.

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
)

type leWriter struct {
	bytes.Buffer
}

func (w *leWriter) put(vs ...interface{}) {
	for _, v := range vs {
		if err := binary.Write(&w.Buffer, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
}

func (w *leWriter) str(s string) {
	w.put(uint16(len(s)))
	w.WriteString(s)
}

type spriteBuilder struct {
	mode          ColorMode
	width, height int
	magic         uint16
	flags         uint32
	frames        []*frameBuilder
}

type frameBuilder struct {
	sprite     *spriteBuilder
	durationMS uint16
	chunks     [][]byte
	// newCount forces the 0xFFFF old count with the real count in the new field.
	newCount bool
}

func newSprite(mode ColorMode, w, h int) *spriteBuilder {
	return &spriteBuilder{mode: mode, width: w, height: h, magic: FileMagic, flags: 1}
}

func (s *spriteBuilder) frame(ms uint16) *frameBuilder {
	f := &frameBuilder{sprite: s, durationMS: ms}
	s.frames = append(s.frames, f)
	return f
}

func (s *spriteBuilder) bytes() []byte {
	var body bytes.Buffer
	for _, f := range s.frames {
		body.Write(f.bytes())
	}

	var w leWriter
	w.put(
		uint32(128+body.Len()),
		s.magic,
		uint16(len(s.frames)),
		uint16(s.width), uint16(s.height),
		uint16(s.mode.BytesPerPixel()*8),
		s.flags,
		uint16(100), // speed
		uint32(0), uint32(0),
		uint8(0), [3]byte{},
		uint16(0),
		uint8(1), uint8(1),
		[92]byte{},
	)
	w.Write(body.Bytes())
	return w.Bytes()
}

func (f *frameBuilder) bytes() []byte {
	var body bytes.Buffer
	for _, c := range f.chunks {
		body.Write(c)
	}
	var w leWriter
	oldCount, newCount := uint16(len(f.chunks)), uint32(0)
	if f.newCount {
		oldCount, newCount = 0xFFFF, uint32(len(f.chunks))
	}
	w.put(uint32(16+body.Len()), uint16(FrameMagic), oldCount, f.durationMS, [2]byte{}, newCount)
	w.Write(body.Bytes())
	return w.Bytes()
}

// chunk appends a chunk of type typ whose declared length also covers pad
// trailing zero bytes the decoder does not know about.
func (f *frameBuilder) chunk(typ ChunkType, payload []byte, pad int) *frameBuilder {
	var w leWriter
	w.put(uint32(6+len(payload)+pad), uint16(typ))
	w.Write(payload)
	w.Write(make([]byte, pad))
	f.chunks = append(f.chunks, w.Bytes())
	return f
}

func (f *frameBuilder) layer(name string, flags LayerFlags, childLevel int, typ LayerType) *frameBuilder {
	var w leWriter
	w.put(uint16(flags), uint16(typ), uint16(childLevel), uint16(0), uint16(0), uint16(BlendNormal), uint8(255), [3]byte{})
	w.str(name)
	return f.chunk(ChunkLayer, w.Bytes(), 0)
}

func (f *frameBuilder) visibleLayer(name string) *frameBuilder {
	return f.layer(name, LayerVisible|LayerEditable, 0, LayerNormal)
}

func celPrefix(layer, x, y int, opacity uint8, typ CelType) *leWriter {
	w := &leWriter{}
	w.put(uint16(layer), int16(x), int16(y), opacity, uint16(typ), int16(0), [5]byte{})
	return w
}

func (f *frameBuilder) rawCel(layer, x, y, width, height int, pix []byte) *frameBuilder {
	w := celPrefix(layer, x, y, 255, CelRaw)
	w.put(uint16(width), uint16(height))
	w.Write(pix)
	return f.chunk(ChunkCel, w.Bytes(), 0)
}

func (f *frameBuilder) compressedCel(layer, x, y, width, height int, pix []byte) *frameBuilder {
	w := celPrefix(layer, x, y, 255, CelCompressed)
	w.put(uint16(width), uint16(height))
	w.Write(zlibBytes(pix))
	return f.chunk(ChunkCel, w.Bytes(), 0)
}

func (f *frameBuilder) linkedCel(layer, frame int) *frameBuilder {
	w := celPrefix(layer, 0, 0, 255, CelLinked)
	w.put(uint16(frame))
	return f.chunk(ChunkCel, w.Bytes(), 0)
}

// zlibBytes returns a zlib stream: 2-byte header, DEFLATE data, checksum.
func zlibBytes(p []byte) []byte {
	var b bytes.Buffer
	zw := zlib.NewWriter(&b)
	if _, err := zw.Write(p); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return b.Bytes()
}

type namedColor struct {
	rgba [4]uint8
	name string
}

func (f *frameBuilder) palette(first int, colors ...namedColor) *frameBuilder {
	var w leWriter
	w.put(uint32(256), uint32(first), uint32(first+len(colors)-1), [8]byte{})
	for _, c := range colors {
		if c.name != "" {
			w.put(uint16(1), c.rgba)
			w.str(c.name)
		} else {
			w.put(uint16(0), c.rgba)
		}
	}
	return f.chunk(ChunkPalette, w.Bytes(), 0)
}

func (f *frameBuilder) userText(text string) *frameBuilder {
	var w leWriter
	w.put(uint32(1))
	w.str(text)
	return f.chunk(ChunkUserData, w.Bytes(), 0)
}

func (f *frameBuilder) userColor(rgba [4]uint8) *frameBuilder {
	var w leWriter
	w.put(uint32(2), rgba)
	return f.chunk(ChunkUserData, w.Bytes(), 0)
}

type testTag struct {
	from, to int
	dir      LoopDirection
	rgb      [3]uint8
	name     string
}

func (f *frameBuilder) tags(tags ...testTag) *frameBuilder {
	var w leWriter
	w.put(uint16(len(tags)), [8]byte{})
	for _, t := range tags {
		w.put(uint16(t.from), uint16(t.to), uint8(t.dir), uint16(0), [6]byte{}, t.rgb, uint8(0))
		w.str(t.name)
	}
	return f.chunk(ChunkFrameTags, w.Bytes(), 0)
}

type testSliceKey struct {
	frame, x, y, w, h int
	pivotX, pivotY    int
}

func (f *frameBuilder) slice(name string, flags uint32, keys ...testSliceKey) *frameBuilder {
	var w leWriter
	w.put(uint32(len(keys)), flags, uint32(0))
	w.str(name)
	for _, k := range keys {
		w.put(uint32(k.frame), int32(k.x), int32(k.y), uint32(k.w), uint32(k.h))
		if flags&1 != 0 {
			w.put(int32(1), int32(1), uint32(2), uint32(2))
		} else if flags&2 != 0 {
			w.put(int32(k.pivotX), int32(k.pivotY))
		}
	}
	return f.chunk(ChunkSlice, w.Bytes(), 0)
}

func mustDecode(t *testing.T, b []byte) *Document {
	t.Helper()
	doc, err := Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("failed to decode sprite: %v", err)
	}
	return doc
}

func rgbaPix(pixels ...[4]uint8) []byte {
	var b []byte
	for _, p := range pixels {
		b = append(b, p[:]...)
	}
	return b
}
