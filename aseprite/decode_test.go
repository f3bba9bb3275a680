package aseprite

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-aseprite/ttesting"
)

func TestDecodeHeader(t *testing.T) {
	s := newSprite(ModeRGBA, 32, 16)
	s.frame(100).visibleLayer("bg")
	doc := mustDecode(t, s.bytes())

	assert.Equal(t, ModeRGBA, doc.Mode)
	ttesting.AssertEqualInt(t, "width", doc.Width, 32)
	ttesting.AssertEqualInt(t, "height", doc.Height, 16)
	ttesting.AssertEqualInt(t, "color count", doc.ColorCount, 256)
	ttesting.AssertEqualInt(t, "pixel width", int(doc.PixelWidth), 1)
	assert.Equal(t, uint32(1), doc.Flags)
}

func TestDecodeFramesAndDurations(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).visibleLayer("bg")
	s.frame(50)
	s.frame(0)
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Frames, 3)
	assert.Equal(t, 100*time.Millisecond, doc.Frames[0].Duration)
	assert.Equal(t, 50*time.Millisecond, doc.Frames[1].Duration)
	assert.Equal(t, time.Duration(0), doc.Frames[2].Duration)
	assert.Empty(t, doc.Frames[1].Cels)
}

func TestDecodeNewChunkCount(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	f := s.frame(100).visibleLayer("a").visibleLayer("b")
	f.newCount = true
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Layers, 2)
	ttesting.AssertEqualString(t, "second layer", doc.Layers[1].Name, "b")
}

func TestDecodeLayers(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		layer("group", LayerVisible|LayerEditable, 0, LayerGroup).
		layer("child", LayerVisible|LayerLockMovement, 1, LayerNormal).
		layer("hidden", LayerEditable, 0, LayerNormal)
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Layers, 3)
	assert.Equal(t, LayerGroup, doc.Layers[0].Type)
	ttesting.AssertEqualInt(t, "child level", doc.Layers[1].ChildLevel, 1)
	assert.Equal(t, LayerVisible|LayerLockMovement, doc.Layers[1].Flags)
	assert.True(t, doc.Layers[1].Visible())
	assert.False(t, doc.Layers[2].Visible())
	assert.Equal(t, BlendNormal, doc.Layers[0].BlendMode)
	assert.Equal(t, float32(1), doc.Layers[0].Opacity)
}

func TestDecodeRawCel(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		visibleLayer("bg").
		rawCel(0, 1, -2, 2, 1, rgbaPix([4]uint8{255, 0, 0, 128}, [4]uint8{10, 20, 30, 255}))
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Frames[0].Cels, 1)
	c := doc.Frames[0].Cels[0]
	ttesting.AssertEqualInt(t, "x", c.X, 1)
	ttesting.AssertEqualInt(t, "y", c.Y, -2)
	ttesting.AssertEqualInt(t, "width", c.Width, 2)
	ttesting.AssertEqualInt(t, "height", c.Height, 1)
	ttesting.AssertEqualInt(t, "linked frame", c.LinkedFrame, -1)
	assert.Equal(t, CelRaw, c.Type)
	require.NotNil(t, c.Image)
	ttesting.AssertEqualRGBA(t, "premultiplied", c.Image.RGBAAt(0, 0), color.RGBA{128, 0, 0, 128})
	ttesting.AssertEqualRGBA(t, "opaque", c.Image.RGBAAt(1, 0), color.RGBA{10, 20, 30, 255})
}

func TestDecodeCelLargerThanCanvas(t *testing.T) {
	pix := make([]byte, 6*5*4)
	for i := range pix {
		pix[i] = 0xFF
	}
	s := newSprite(ModeRGBA, 2, 2)
	s.frame(100).visibleLayer("bg").rawCel(0, 0, 0, 6, 5, pix)
	doc := mustDecode(t, s.bytes())

	assert.Equal(t, image.Rect(0, 0, 6, 5), doc.Frames[0].Cels[0].Image.Bounds())
	ttesting.AssertEqualRGBA(t, "far corner", doc.Frames[0].Cels[0].Image.RGBAAt(5, 4), color.RGBA{255, 255, 255, 255})
}

func TestCompressedCelMatchesRaw(t *testing.T) {
	for _, tc := range []struct {
		name string
		mode ColorMode
	}{
		{"rgba", ModeRGBA},
		{"grayscale", ModeGrayscale},
		{"indexed", ModeIndexed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			const w, h = 3, 2
			pix := make([]byte, w*h*tc.mode.BytesPerPixel())
			for i := range pix {
				pix[i] = byte(i*37 + 11)
			}

			build := func(compressed bool) []byte {
				s := newSprite(tc.mode, w, h)
				f := s.frame(100)
				if tc.mode == ModeIndexed {
					colors := make([]namedColor, 256)
					for i := range colors {
						colors[i] = namedColor{rgba: [4]uint8{uint8(i), uint8(255 - i), 7, uint8(i | 1)}}
					}
					f.palette(0, colors...)
				}
				f.visibleLayer("bg")
				if compressed {
					f.compressedCel(0, 0, 0, w, h, pix)
				} else {
					f.rawCel(0, 0, 0, w, h, pix)
				}
				return s.bytes()
			}

			raw := mustDecode(t, build(false))
			comp := mustDecode(t, build(true))
			assert.Equal(t, CelCompressed, comp.Frames[0].Cels[0].Type)
			assert.Equal(t, raw.Frames[0].Cels[0].Image.Pix, comp.Frames[0].Cels[0].Image.Pix)
		})
	}
}

func TestLinkedCelSharesPixels(t *testing.T) {
	s := newSprite(ModeRGBA, 2, 2)
	s.frame(100).
		visibleLayer("bg").
		rawCel(0, 0, 0, 2, 2, make([]byte, 16))
	s.frame(100).linkedCel(0, 0)
	s.frame(100).linkedCel(0, 1)
	doc := mustDecode(t, s.bytes())

	src := doc.Frames[0].Cels[0]
	for i := 1; i <= 2; i++ {
		c := doc.Frames[i].Cels[0]
		assert.Equal(t, CelLinked, c.Type)
		assert.True(t, c.Image == src.Image, "frame %d cel does not alias frame 0", i)
		ttesting.AssertEqualInt(t, "width", c.Width, src.Width)
		ttesting.AssertEqualInt(t, "height", c.Height, src.Height)
	}
	ttesting.AssertEqualInt(t, "link target", doc.Frames[1].Cels[0].LinkedFrame, 0)
	ttesting.AssertEqualInt(t, "chained link target", doc.Frames[2].Cels[0].LinkedFrame, 1)
}

func TestDanglingReferences(t *testing.T) {
	for _, tc := range []struct {
		name  string
		build func() *spriteBuilder
	}{
		{"cel layer out of range", func() *spriteBuilder {
			s := newSprite(ModeRGBA, 2, 2)
			s.frame(100).visibleLayer("bg").rawCel(1, 0, 0, 1, 1, make([]byte, 4))
			return s
		}},
		{"link to own frame", func() *spriteBuilder {
			s := newSprite(ModeRGBA, 2, 2)
			s.frame(100).visibleLayer("bg").linkedCel(0, 0)
			return s
		}},
		{"link to later frame", func() *spriteBuilder {
			s := newSprite(ModeRGBA, 2, 2)
			s.frame(100).visibleLayer("bg").linkedCel(0, 1)
			s.frame(100)
			return s
		}},
		{"link to frame without cel on layer", func() *spriteBuilder {
			s := newSprite(ModeRGBA, 2, 2)
			s.frame(100).visibleLayer("a").visibleLayer("b").rawCel(0, 0, 0, 1, 1, make([]byte, 4))
			s.frame(100).linkedCel(1, 0)
			return s
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Decode(bytes.NewReader(tc.build().bytes()))
			assert.Nil(t, doc)
			assert.Equal(t, ErrDanglingReference, KindOf(err), "error: %v", err)
		})
	}
}

func TestDecompressionFailures(t *testing.T) {
	garbage := func(f *frameBuilder) {
		w := celPrefix(0, 0, 0, 255, CelCompressed)
		w.put(uint16(2), uint16(2), uint8(0x78), uint8(0x9C))
		w.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
		f.chunk(ChunkCel, w.Bytes(), 0)
	}
	short := func(f *frameBuilder) {
		// Inflates to one pixel where four are declared.
		f.compressedCel(0, 0, 0, 2, 2, make([]byte, 4))
	}
	for name, add := range map[string]func(*frameBuilder){"garbage": garbage, "short": short} {
		t.Run(name, func(t *testing.T) {
			s := newSprite(ModeRGBA, 2, 2)
			add(s.frame(100).visibleLayer("bg"))
			doc, err := Decode(bytes.NewReader(s.bytes()))
			assert.Nil(t, doc)
			assert.Equal(t, ErrDecompression, KindOf(err), "error: %v", err)
		})
	}
}

func TestUnsupportedCelTypeHasNoPixels(t *testing.T) {
	s := newSprite(ModeRGBA, 2, 2)
	w := celPrefix(0, 0, 0, 255, CelCompressedTilemap)
	w.put(uint16(1), uint16(1), uint16(32))
	s.frame(100).visibleLayer("tiles").chunk(ChunkCel, w.Bytes(), 20).visibleLayer("after")
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Frames[0].Cels, 1)
	assert.Nil(t, doc.Frames[0].Cels[0].Image)
	assert.Equal(t, CelCompressedTilemap, doc.Frames[0].Cels[0].Type)
	ttesting.AssertEqualString(t, "following layer", doc.Layers[1].Name, "after")
}

func fullPalette(c [4]uint8) []namedColor {
	colors := make([]namedColor, 256)
	for i := range colors {
		colors[i] = namedColor{rgba: c}
	}
	return colors
}

func TestPalettePartialUpdate(t *testing.T) {
	base := [4]uint8{9, 9, 9, 255}
	s := newSprite(ModeIndexed, 2, 2)
	s.frame(100).
		palette(0, fullPalette(base)...).
		palette(10,
			namedColor{rgba: [4]uint8{255, 0, 0, 255}},
			namedColor{rgba: [4]uint8{0, 255, 0, 128}, name: "half green"},
			namedColor{rgba: [4]uint8{0, 0, 255, 255}},
		)
	doc := mustDecode(t, s.bytes())

	want := color.RGBA{9, 9, 9, 255}
	for i := range doc.Palette {
		if i >= 10 && i <= 12 {
			continue
		}
		if doc.Palette[i] != want {
			t.Errorf("slot %d = %v; want %v", i, doc.Palette[i], want)
		}
	}
	ttesting.AssertEqualRGBA(t, "slot 10", doc.Palette[10], color.RGBA{255, 0, 0, 255})
	ttesting.AssertEqualRGBA(t, "slot 11", doc.Palette[11], color.RGBA{0, 128, 0, 128})
	ttesting.AssertEqualRGBA(t, "slot 12", doc.Palette[12], color.RGBA{0, 0, 255, 255})
}

func TestPaletteSingleSlot(t *testing.T) {
	s := newSprite(ModeIndexed, 2, 2)
	s.frame(100).palette(5, namedColor{rgba: [4]uint8{1, 2, 3, 255}})
	doc := mustDecode(t, s.bytes())

	ttesting.AssertEqualRGBA(t, "slot 5", doc.Palette[5], color.RGBA{1, 2, 3, 255})
	ttesting.AssertEqualRGBA(t, "slot 4", doc.Palette[4], color.RGBA{})
	ttesting.AssertEqualRGBA(t, "slot 6", doc.Palette[6], color.RGBA{})
}

func TestPaletteInvalidRange(t *testing.T) {
	for name, first := range map[string]int{"first after last": 12, "past table": 255} {
		t.Run(name, func(t *testing.T) {
			s := newSprite(ModeIndexed, 2, 2)
			f := s.frame(100)
			if first == 255 {
				f.palette(first, namedColor{}, namedColor{})
			} else {
				f.palette(first)
			}
			_, err := Decode(bytes.NewReader(s.bytes()))
			assert.Equal(t, ErrInvalidFormat, KindOf(err), "error: %v", err)
		})
	}
}

func TestPaletteCarriesAcrossFrames(t *testing.T) {
	s := newSprite(ModeIndexed, 2, 1)
	s.frame(100).
		visibleLayer("bg").
		palette(1, namedColor{rgba: [4]uint8{200, 100, 50, 255}})
	s.frame(100).rawCel(0, 0, 0, 2, 1, []byte{1, 0})
	doc := mustDecode(t, s.bytes())

	img := doc.Frames[1].Cels[0].Image
	ttesting.AssertEqualRGBA(t, "index 1", img.RGBAAt(0, 0), color.RGBA{200, 100, 50, 255})
	ttesting.AssertEqualRGBA(t, "index 0", img.RGBAAt(1, 0), color.RGBA{})
}

func TestUserDataAttachesToLatestRecord(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		userText("orphan").
		visibleLayer("a").
		visibleLayer("b").
		userText("about b").
		rawCel(1, 0, 0, 1, 1, make([]byte, 4)).
		userColor([4]uint8{255, 0, 0, 255}).
		slice("hitbox", 0, testSliceKey{w: 2, h: 2}).
		userText("about hitbox")
	doc := mustDecode(t, s.bytes())

	ttesting.AssertEqualString(t, "layer a", doc.Layers[0].UserData.Text, "")
	ttesting.AssertEqualString(t, "layer b", doc.Layers[1].UserData.Text, "about b")
	cel := doc.Frames[0].Cels[0]
	ttesting.AssertEqualString(t, "cel text", cel.UserData.Text, "")
	ttesting.AssertEqualRGBA(t, "cel color", cel.UserData.Color, color.RGBA{255, 0, 0, 255})
	ttesting.AssertEqualString(t, "slice", doc.Slices[0].UserData.Text, "about hitbox")
}

func TestUserDataTextShadowsColor(t *testing.T) {
	var w leWriter
	w.put(uint32(3))
	w.str("both")
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		visibleLayer("a").chunk(ChunkUserData, w.Bytes(), 0).
		visibleLayer("b").userColor([4]uint8{0, 0, 200, 128})
	doc := mustDecode(t, s.bytes())

	ttesting.AssertEqualString(t, "text", doc.Layers[0].UserData.Text, "both")
	ttesting.AssertEqualRGBA(t, "no color", doc.Layers[0].UserData.Color, color.RGBA{})
	ttesting.AssertEqualString(t, "color only text", doc.Layers[1].UserData.Text, "")
	ttesting.AssertEqualRGBA(t, "color only", doc.Layers[1].UserData.Color, color.RGBA{0, 0, 100, 128})
}

func TestUserDataTargetSurvivesFrames(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).visibleLayer("a").rawCel(0, 0, 0, 1, 1, make([]byte, 4))
	s.frame(100).userText("late")
	doc := mustDecode(t, s.bytes())

	ttesting.AssertEqualString(t, "frame 0 cel", doc.Frames[0].Cels[0].UserData.Text, "late")
}

func TestSliceWithoutKeysKeepsTarget(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		visibleLayer("a").
		slice("empty", 0).
		userText("still a")
	doc := mustDecode(t, s.bytes())

	assert.Empty(t, doc.Slices)
	ttesting.AssertEqualString(t, "layer", doc.Layers[0].UserData.Text, "still a")
}

func TestSliceKeys(t *testing.T) {
	s := newSprite(ModeRGBA, 16, 16)
	s.frame(100).
		slice("pivoted", 2,
			testSliceKey{frame: 0, x: -3, y: 4, w: 10, h: 12, pivotX: 5, pivotY: 6},
			testSliceKey{frame: 2, x: 1, y: 1, w: 2, h: 3, pivotX: -1, pivotY: 0},
		).
		slice("nine", 3,
			testSliceKey{frame: 0, x: 2, y: 2, w: 4, h: 4, pivotX: 9, pivotY: 9},
			testSliceKey{frame: 1, x: 3, y: 3, w: 4, h: 4},
		).
		slice("plain", 0, testSliceKey{frame: 1, x: 7, y: 8, w: 1, h: 1})
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Slices, 5)
	first := doc.Slices[0]
	ttesting.AssertEqualString(t, "name", first.Name, "pivoted")
	assert.Equal(t, image.Pt(-3, 4), first.Origin)
	assert.Equal(t, image.Rect(-3, 4, 7, 16), first.Bounds())
	require.NotNil(t, first.Pivot)
	assert.Equal(t, image.Pt(5, 6), *first.Pivot)

	ttesting.AssertEqualString(t, "second key name", doc.Slices[1].Name, "pivoted")
	ttesting.AssertEqualInt(t, "second key frame", doc.Slices[1].Frame, 2)
	require.NotNil(t, doc.Slices[1].Pivot)
	assert.Equal(t, image.Pt(-1, 0), *doc.Slices[1].Pivot)

	// The centre is read, so no pivot follows it.
	assert.Nil(t, doc.Slices[2].Pivot)
	assert.Nil(t, doc.Slices[3].Pivot)
	assert.Equal(t, image.Pt(3, 3), doc.Slices[3].Origin)

	assert.Nil(t, doc.Slices[4].Pivot)
	ttesting.AssertEqualInt(t, "plain frame", doc.Slices[4].Frame, 1)
}

func TestTags(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).tags(
		testTag{from: 0, to: 1, dir: LoopForward, name: "walk"},
		testTag{from: 1, to: 2, dir: LoopPingPong, rgb: [3]uint8{10, 20, 30}, name: "idle"},
	)
	s.frame(100)
	s.frame(100)
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Tags, 2)
	assert.Equal(t, Tag{Name: "walk", From: 0, To: 1, LoopDirection: LoopForward, Color: color.RGBA{A: 255}}, doc.Tags[0])
	assert.Equal(t, LoopPingPong, doc.Tags[1].LoopDirection)
	ttesting.AssertEqualRGBA(t, "color", doc.Tags[1].Color, color.RGBA{10, 20, 30, 255})
}

func TestTagsOutOfRange(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).tags(testTag{from: 0, to: 1, name: "too long"})
	_, err := Decode(bytes.NewReader(s.bytes()))
	assert.Equal(t, ErrInvalidFormat, KindOf(err))

	s = newSprite(ModeRGBA, 4, 4)
	s.frame(100).tags(testTag{from: 1, to: 0, name: "backwards"})
	s.frame(100)
	_, err = Decode(bytes.NewReader(s.bytes()))
	assert.Equal(t, ErrInvalidFormat, KindOf(err))
}

func TestUnknownChunksSkipped(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		chunk(ChunkOldPaletteA, []byte{1, 0, 0, 3, 1, 2, 3}, 0).
		chunk(ChunkMask, bytes.Repeat([]byte{0xEE}, 40), 0).
		chunk(ChunkType(0x2007), []byte{1, 2}, 0).
		chunk(ChunkCelExtra, make([]byte, 20), 0).
		visibleLayer("survivor")
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Layers, 1)
	ttesting.AssertEqualString(t, "layer", doc.Layers[0].Name, "survivor")
}

func TestChunkPaddingIsSkipped(t *testing.T) {
	var w leWriter
	w.put(uint16(LayerVisible), uint16(LayerNormal), uint16(0), uint16(0), uint16(0), uint16(BlendNormal), uint8(255), [3]byte{})
	w.str("padded")

	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).chunk(ChunkLayer, w.Bytes(), 13).visibleLayer("next")
	s.frame(100).visibleLayer("frame 1")
	b := s.bytes()

	rd, err := newReader(bytes.NewReader(b))
	require.NoError(t, err)
	d := &decoder{r: rd}
	doc, err := d.decode()
	require.NoError(t, err)

	require.Len(t, doc.Layers, 3)
	ttesting.AssertEqualString(t, "padded", doc.Layers[0].Name, "padded")
	ttesting.AssertEqualString(t, "next", doc.Layers[1].Name, "next")
	ttesting.AssertEqualString(t, "frame 1", doc.Layers[2].Name, "frame 1")
	ttesting.AssertEqualInt64(t, "cursor at end", d.r.position(), int64(len(b)))
}

func TestChunkOverrunIsRewound(t *testing.T) {
	// A layer chunk whose declared length stops before its name. Reading
	// the name runs into the following chunks; the decoder must rewind to
	// the declared end and carry on from there.
	var w leWriter
	w.put(uint16(LayerVisible), uint16(LayerNormal), uint16(0), uint16(0), uint16(0), uint16(BlendNormal), uint8(255), [3]byte{})

	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).
		chunk(ChunkLayer, w.Bytes(), 0).
		chunk(ChunkType(0x2007), make([]byte, 6), 0).
		visibleLayer("b")
	doc := mustDecode(t, s.bytes())

	require.Len(t, doc.Layers, 2)
	ttesting.AssertEqualInt(t, "overrun name length", len(doc.Layers[0].Name), 12)
	ttesting.AssertEqualString(t, "resynced", doc.Layers[1].Name, "b")
}

func TestChunkPastFrameEnd(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	f := s.frame(100).visibleLayer("a")
	var w leWriter
	w.put(uint32(1000), uint16(ChunkLayer))
	f.chunks = append(f.chunks, w.Bytes())

	_, err := Decode(bytes.NewReader(s.bytes()))
	assert.Equal(t, ErrInvalidFormat, KindOf(err), "error: %v", err)
}

func TestBadMagic(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.magic = 0x1234
	s.frame(100).visibleLayer("a")
	b := s.bytes()

	doc, err := Decode(bytes.NewReader(b))
	assert.Nil(t, doc)
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok, "error is %T", err)
	assert.Equal(t, ErrInvalidFormat, de.Kind)
	assert.Equal(t, int64(4), de.Offset)

	doc, err = DecodeOptions(bytes.NewReader(b), &Options{SkipMagicCheck: true})
	require.NoError(t, err)
	ttesting.AssertEqualString(t, "lenient", doc.Layers[0].Name, "a")
}

func TestBadColorDepth(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100)
	b := s.bytes()
	b[12] = 24

	_, err := Decode(bytes.NewReader(b))
	assert.Equal(t, ErrInvalidFormat, KindOf(err))
}

func TestTruncatedStreams(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).visibleLayer("a").rawCel(0, 0, 0, 2, 2, make([]byte, 16))
	b := s.bytes()

	for _, n := range []int{0, 3, 64, 128, 130, len(b) - 20, len(b) - 1} {
		doc, err := Decode(bytes.NewReader(b[:n]))
		assert.Nil(t, doc, "truncated to %d", n)
		assert.Equal(t, ErrUnexpectedEOF, KindOf(err), "truncated to %d: %v", n, err)
	}
}

func TestDecodeNonSeeker(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).visibleLayer("streamed")
	doc, err := Decode(iotest.OneByteReader(bytes.NewReader(s.bytes())))
	require.NoError(t, err)
	ttesting.AssertEqualString(t, "layer", doc.Layers[0].Name, "streamed")
}

func TestDecodeFile(t *testing.T) {
	s := newSprite(ModeRGBA, 4, 4)
	s.frame(100).visibleLayer("on disk")
	path := filepath.Join(t.TempDir(), "sprite.aseprite")
	require.NoError(t, os.WriteFile(path, s.bytes(), 0644))

	doc, err := DecodeFile(path, nil)
	require.NoError(t, err)
	ttesting.AssertEqualString(t, "layer", doc.Layers[0].Name, "on disk")

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.aseprite"), nil)
	require.Error(t, err)
	assert.Equal(t, ErrorKind(0), KindOf(err))
}

func TestConcurrentDecodesDoNotShareState(t *testing.T) {
	red := newSprite(ModeIndexed, 1, 1)
	red.frame(100).visibleLayer("a").palette(0, namedColor{rgba: [4]uint8{255, 0, 0, 255}}).rawCel(0, 0, 0, 1, 1, []byte{0})
	blue := newSprite(ModeIndexed, 1, 1)
	blue.frame(100).visibleLayer("a").palette(0, namedColor{rgba: [4]uint8{0, 0, 255, 255}}).rawCel(0, 0, 0, 1, 1, []byte{0})
	rb, bb := red.bytes(), blue.bytes()

	errc := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			b, want := rb, color.RGBA{255, 0, 0, 255}
			if i%2 == 1 {
				b, want = bb, color.RGBA{0, 0, 255, 255}
			}
			doc, err := Decode(bytes.NewReader(b))
			if err == nil && doc.Frames[0].Cels[0].Image.RGBAAt(0, 0) != want {
				err = assert.AnError
			}
			errc <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, <-errc)
	}
}

func TestErrorMessage(t *testing.T) {
	err := newError(ErrDecompression, 0x40, "bad %s", "stream")
	assert.Equal(t, "aseprite: decompression failure at offset 0x40: bad stream", err.Error())
	assert.Equal(t, ErrDecompression, KindOf(err))
	assert.Equal(t, ErrorKind(0), KindOf(assert.AnError))
}
