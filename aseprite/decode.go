package aseprite

// This file contains the document assembler: the file header, the
// per-decode session state, and the top level entry points.

import (
	"bytes"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Options tune decoding. The zero value is the strict default.
type Options struct {
	// SkipMagicCheck accepts files whose header magic is not 0xA5E0.
	// Historically the magic was read but never checked; set this for
	// compatibility with files that relied on that.
	SkipMagicCheck bool
}

type fileHeader struct {
	FileSize         uint32
	Magic            uint16
	FrameCount       uint16
	Width            uint16
	Height           uint16
	ColorDepth       uint16
	Flags            uint32
	Speed            uint16 // deprecated, frames carry their own duration
	_                [2]uint32
	TransparentIndex uint8
	_                [3]byte
	ColorCount       uint16
	PixelWidth       uint8
	PixelHeight      uint8
	_                [92]byte
}

// Bit of fileHeader.Flags marking layer opacity fields as meaningful.
const headerFlagLayerOpacityBit = 0

type targetKind int

const (
	targetNone targetKind = iota
	targetLayer
	targetCel
	targetSlice
)

// userDataRef points at the record the next UserData chunk attaches to.
type userDataRef struct {
	kind  targetKind
	frame int
	index int
}

// decoder is the state of one decode call. The palette and scratch buffer
// live here, never in package state, so concurrent decodes do not share
// anything.
type decoder struct {
	r    *reader
	opts Options

	doc        *Document
	frameCount int
	frame      int

	palette Palette
	scratch []byte
	target  userDataRef
}

// Decode reads a complete sprite document from r with default options.
func Decode(r io.Reader) (*Document, error) {
	return DecodeOptions(r, nil)
}

// DecodeOptions reads a complete sprite document from r. If r is not an
// io.ReadSeeker the whole stream is buffered first. On error no document is
// returned; the error carries a *DecodeError.
func DecodeOptions(r io.Reader, o *Options) (*Document, error) {
	if o == nil {
		o = &Options{}
	}
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, newError(ErrUnexpectedEOF, int64(len(buf)), "could not buffer stream: %v", err)
		}
		rs = bytes.NewReader(buf)
	}
	rd, err := newReader(rs)
	if err != nil {
		return nil, err
	}
	d := &decoder{r: rd, opts: *o}
	return d.decode()
}

// DecodeFile opens, decodes and closes the file at path.
func DecodeFile(path string, o *Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	doc, err := DecodeOptions(f, o)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %q", path)
	}
	return doc, nil
}

func (d *decoder) readHeader() (*fileHeader, error) {
	start := d.r.position()
	var h fileHeader
	if err := d.r.fixed(&h); err != nil {
		return nil, errors.Wrap(err, "reading file header")
	}
	if h.Magic != FileMagic {
		if !d.opts.SkipMagicCheck {
			return nil, newError(ErrInvalidFormat, start+4, "bad magic number; got 0x%04x, want 0x%04x", h.Magic, FileMagic)
		}
		glog.V(1).Infof("aseprite: ignoring bad magic number 0x%04x", h.Magic)
	}
	if !ColorMode(h.ColorDepth / 8).valid() || h.ColorDepth%8 != 0 {
		return nil, newError(ErrInvalidFormat, start+12, "unsupported color depth %d", h.ColorDepth)
	}
	if int64(h.FileSize) != d.r.size-start {
		glog.Warningf("aseprite: header says %d bytes, stream has %d", h.FileSize, d.r.size-start)
	}
	return &h, nil
}

func (d *decoder) decode() (*Document, error) {
	h, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	mode := ColorMode(h.ColorDepth / 8)
	colorCount := int(h.ColorCount)
	if colorCount == 0 {
		colorCount = 256
	}
	d.doc = &Document{
		Mode:             mode,
		Width:            int(h.Width),
		Height:           int(h.Height),
		Flags:            h.Flags,
		TransparentIndex: h.TransparentIndex,
		ColorCount:       colorCount,
		PixelWidth:       h.PixelWidth,
		PixelHeight:      h.PixelHeight,
		Frames:           make([]Frame, 0, h.FrameCount),
	}
	d.frameCount = int(h.FrameCount)
	d.scratch = make([]byte, d.doc.Width*d.doc.Height*mode.BytesPerPixel())

	glog.V(2).Infof("aseprite: %dx%d %s, %d frames", h.Width, h.Height, mode, h.FrameCount)

	for i := 0; i < d.frameCount; i++ {
		if err := d.decodeFrame(i); err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
	}
	d.doc.Palette = d.palette
	return d.doc, nil
}

// scratchFor returns a staging buffer of n bytes. Callers overwrite all of
// it before reading it back.
func (d *decoder) scratchFor(n int) []byte {
	if cap(d.scratch) < n {
		d.scratch = make([]byte, n)
	}
	return d.scratch[:n]
}

func (d *decoder) userDataTarget() *UserData {
	switch d.target.kind {
	case targetLayer:
		return &d.doc.Layers[d.target.index].UserData
	case targetCel:
		return &d.doc.Frames[d.target.frame].Cels[d.target.index].UserData
	case targetSlice:
		return &d.doc.Slices[d.target.index].UserData
	}
	return nil
}
