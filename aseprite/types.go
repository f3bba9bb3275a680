package aseprite

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// File and frame magic numbers.
const (
	FileMagic  = 0xA5E0
	FrameMagic = 0xF1FA
)

// ColorMode is the pixel encoding of a sprite. Its value is the number of
// bytes each pixel occupies in cel data (header colour depth / 8).
type ColorMode int

const (
	ModeIndexed   ColorMode = 1
	ModeGrayscale ColorMode = 2
	ModeRGBA      ColorMode = 4
)

// BytesPerPixel returns the size of one raw pixel in this mode.
func (m ColorMode) BytesPerPixel() int {
	return int(m)
}

func (m ColorMode) valid() bool {
	return m == ModeIndexed || m == ModeGrayscale || m == ModeRGBA
}

func (m ColorMode) String() string {
	switch m {
	case ModeIndexed:
		return "indexed"
	case ModeGrayscale:
		return "grayscale"
	case ModeRGBA:
		return "rgba"
	}
	return fmt.Sprintf("color mode %d", int(m))
}

// ChunkType is the 2-byte code in each chunk header.
type ChunkType uint16

const (
	ChunkOldPaletteA ChunkType = 0x0004
	ChunkOldPaletteB ChunkType = 0x0011
	ChunkLayer       ChunkType = 0x2004
	ChunkCel         ChunkType = 0x2005
	ChunkCelExtra    ChunkType = 0x2006
	ChunkMask        ChunkType = 0x2016
	ChunkPath        ChunkType = 0x2017
	ChunkFrameTags   ChunkType = 0x2018
	ChunkPalette     ChunkType = 0x2019
	ChunkUserData    ChunkType = 0x2020
	ChunkSlice       ChunkType = 0x2022
)

func (c ChunkType) String() string {
	switch c {
	case ChunkOldPaletteA, ChunkOldPaletteB:
		return fmt.Sprintf("old palette (0x%04x)", uint16(c))
	case ChunkLayer:
		return "layer"
	case ChunkCel:
		return "cel"
	case ChunkCelExtra:
		return "cel extra"
	case ChunkMask:
		return "mask"
	case ChunkPath:
		return "path"
	case ChunkFrameTags:
		return "frame tags"
	case ChunkPalette:
		return "palette"
	case ChunkUserData:
		return "user data"
	case ChunkSlice:
		return "slice"
	}
	return fmt.Sprintf("chunk 0x%04x", uint16(c))
}

// Document is one decoded sprite. It is complete and must be treated as
// read-only once returned; linked cels share pixel buffers.
type Document struct {
	Mode   ColorMode
	Width  int
	Height int

	// Header extras.
	Flags            uint32
	TransparentIndex uint8
	ColorCount       int
	PixelWidth       uint8
	PixelHeight      uint8

	Frames []Frame
	Layers []Layer
	Tags   []Tag
	Slices []Slice

	// Palette is the state of the indexed palette after the last frame.
	Palette Palette
}

// Frame is one animation frame. Its index in Document.Frames is the frame
// number used by linked cels, tags and slices.
type Frame struct {
	Duration time.Duration
	Cels     []Cel
}

// UserData is the optional note attached to a layer, cel or slice.
type UserData struct {
	Text  string
	Color color.RGBA
}

// LayerType distinguishes pixel layers from groups.
type LayerType uint16

const (
	LayerNormal LayerType = 0
	LayerGroup  LayerType = 1
)

func (t LayerType) String() string {
	switch t {
	case LayerNormal:
		return "normal"
	case LayerGroup:
		return "group"
	}
	return fmt.Sprintf("layer type %d", uint16(t))
}

// LayerFlags is the layer flag bitmask.
type LayerFlags uint16

const (
	LayerVisible LayerFlags = 1 << iota
	LayerEditable
	LayerLockMovement
	LayerBackground
	LayerPreferLinkedCels
	LayerDisplayCollapsed
	LayerReference
)

func (f LayerFlags) String() string {
	names := []string{"visible", "editable", "lock-movement", "background", "prefer-linked-cels", "collapsed", "reference"}
	s := ""
	for i, n := range names {
		if f&(1<<uint(i)) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// BlendMode is the layer blend mode. Only the identity is decoded; the
// FrameImage preview composites every mode as normal.
type BlendMode uint16

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendAddition
	BlendSubtract
	BlendDivide
)

var blendModeNames = [...]string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten",
	"color dodge", "color burn", "hard light", "soft light", "difference",
	"exclusion", "hue", "saturation", "color", "luminosity", "addition",
	"subtract", "divide",
}

func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return fmt.Sprintf("blend mode %d", uint16(b))
}

// Layer is identified by its index in Document.Layers.
type Layer struct {
	Name       string
	Flags      LayerFlags
	Type       LayerType
	ChildLevel int
	BlendMode  BlendMode
	// Opacity is in [0,1].
	Opacity  float32
	UserData UserData
}

// Visible reports whether the visible flag is set on the layer itself.
func (l *Layer) Visible() bool {
	return l.Flags&LayerVisible != 0
}

// CelType is the cel payload encoding.
type CelType uint16

const (
	CelRaw               CelType = 0
	CelLinked            CelType = 1
	CelCompressed        CelType = 2
	CelCompressedTilemap CelType = 3
)

func (t CelType) String() string {
	switch t {
	case CelRaw:
		return "raw"
	case CelLinked:
		return "linked"
	case CelCompressed:
		return "compressed"
	case CelCompressedTilemap:
		return "compressed tilemap"
	}
	return fmt.Sprintf("cel type %d", uint16(t))
}

// Cel is one layer's pixels in one frame.
//
// Raw and compressed cels own Image. Linked cels carry the very same Image
// pointer as the cel they link to, together with its Width and Height;
// LinkedFrame names the frame they were resolved from. Tilemap cels have a
// nil Image.
type Cel struct {
	LayerIndex  int
	X, Y        int
	ZIndex      int
	Opacity     float32
	Type        CelType
	LinkedFrame int
	Width       int
	Height      int
	// Image holds premultiplied pixels with bounds (0,0)-(Width,Height).
	Image    *image.RGBA
	UserData UserData
}

// LoopDirection is the playback direction stored with a tag.
type LoopDirection uint8

const (
	LoopForward LoopDirection = iota
	LoopReverse
	LoopPingPong
	LoopPingPongReverse
)

func (d LoopDirection) String() string {
	switch d {
	case LoopForward:
		return "forward"
	case LoopReverse:
		return "reverse"
	case LoopPingPong:
		return "ping-pong"
	case LoopPingPongReverse:
		return "ping-pong reverse"
	}
	return fmt.Sprintf("loop direction %d", uint8(d))
}

// Tag names an inclusive frame range.
type Tag struct {
	Name          string
	From, To      int
	LoopDirection LoopDirection
	// Repeat is 0 for "unspecified" (loop forever).
	Repeat int
	// Color is a display hint only.
	Color color.RGBA
}

// Slice is one key of a Slice chunk; all keys of a chunk share Name.
type Slice struct {
	Name   string
	Frame  int
	Origin image.Point
	Width  int
	Height int
	// Pivot is nil unless the chunk carried pivot data.
	Pivot    *image.Point
	UserData UserData
}

// Bounds returns the slice rectangle in canvas pixels.
func (s *Slice) Bounds() image.Rectangle {
	return image.Rect(s.Origin.X, s.Origin.Y, s.Origin.X+s.Width, s.Origin.Y+s.Height)
}
