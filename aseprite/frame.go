package aseprite

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type frameHeader struct {
	Length        uint32
	Magic         uint16
	OldChunkCount uint16
	DurationMS    uint16
	_             [2]byte
	NewChunkCount uint32
}

type chunkHeader struct {
	Length uint32
	Type   uint16
}

const (
	frameHeaderSize = 16
	chunkHeaderSize = 6
)

// decodeFrame reads frame number index and all of its chunks. The cursor
// ends up exactly at the frame's declared end, whatever the chunk decoders
// consumed.
func (d *decoder) decodeFrame(index int) error {
	start := d.r.position()
	var h frameHeader
	if err := d.r.fixed(&h); err != nil {
		return err
	}
	if h.Length < frameHeaderSize {
		return newError(ErrInvalidFormat, start, "frame length %d shorter than its header", h.Length)
	}
	end := start + int64(h.Length)
	if end > d.r.size {
		return newError(ErrUnexpectedEOF, start, "frame ends at 0x%x past stream end 0x%x", end, d.r.size)
	}
	if h.Magic != FrameMagic {
		glog.V(1).Infof("aseprite: frame %d magic 0x%04x, want 0x%04x", index, h.Magic, FrameMagic)
	}

	count := int(h.OldChunkCount)
	if h.OldChunkCount == 0xFFFF && h.NewChunkCount != 0 {
		count = int(h.NewChunkCount)
	}

	d.doc.Frames = append(d.doc.Frames, Frame{
		Duration: time.Duration(h.DurationMS) * time.Millisecond,
	})
	d.frame = index

	glog.V(2).Infof("aseprite: frame %d at 0x%x: %d bytes, %d chunks, %dms", index, start, h.Length, count, h.DurationMS)

	for j := 0; j < count; j++ {
		chunkStart := d.r.position()
		var ch chunkHeader
		if err := d.r.fixed(&ch); err != nil {
			return errors.Wrapf(err, "chunk %d header", j)
		}
		if ch.Length < chunkHeaderSize {
			return newError(ErrInvalidFormat, chunkStart, "chunk %d length %d shorter than its header", j, ch.Length)
		}
		chunkEnd := chunkStart + int64(ch.Length)
		if chunkEnd > end {
			return newError(ErrInvalidFormat, chunkStart, "chunk %d ends at 0x%x past frame end 0x%x", j, chunkEnd, end)
		}

		typ := ChunkType(ch.Type)
		glog.V(2).Infof("aseprite:   chunk %d: %s, %d bytes", j, typ, ch.Length)
		if err := d.decodeChunk(typ, chunkEnd); err != nil {
			return errors.Wrapf(err, "chunk %d (%s)", j, typ)
		}

		if p := d.r.position(); p > chunkEnd {
			glog.Warningf("aseprite: %s chunk at 0x%x read %d bytes past its end", typ, chunkStart, p-chunkEnd)
		}
		if err := d.r.seekTo(chunkEnd); err != nil {
			return err
		}
	}

	return d.r.seekTo(end)
}

func (d *decoder) decodeChunk(typ ChunkType, end int64) error {
	switch typ {
	case ChunkLayer:
		return d.decodeLayer()
	case ChunkCel:
		return d.decodeCel(end)
	case ChunkPalette:
		return d.decodePalette()
	case ChunkUserData:
		return d.decodeUserData()
	case ChunkFrameTags:
		return d.decodeTags()
	case ChunkSlice:
		return d.decodeSlice()
	default:
		// Old palettes, cel extras, masks, paths and anything newer are
		// skipped by the caller seeking to the chunk end.
		glog.V(1).Infof("aseprite: skipping %s chunk", typ)
		return nil
	}
}
