package export

import (
	"fmt"

	"github.com/bradfitz/iter"

	"badc0de.net/pkg/go-aseprite/aseprite"
)

// FrameOrder returns the frame indices one pass of the named tag plays, and
// the GIF loop count matching the tag's repeat setting. An empty name means
// every frame in file order, looping forever.
//
// Ping-pong passes do not play the end frames twice: a 0..3 ping-pong tag
// plays 0 1 2 3 2 1.
func FrameOrder(doc *aseprite.Document, tag string) ([]int, int, error) {
	if tag == "" {
		order := make([]int, 0, len(doc.Frames))
		for i := range iter.N(len(doc.Frames)) {
			order = append(order, i)
		}
		return order, 0, nil
	}

	t := findTag(doc, tag)
	if t == nil {
		return nil, 0, fmt.Errorf("export: no tag %q", tag)
	}

	var order []int
	forward := func(from, to int) {
		for i := from; i <= to; i++ {
			order = append(order, i)
		}
	}
	backward := func(from, to int) {
		for i := from; i >= to; i-- {
			order = append(order, i)
		}
	}
	switch t.LoopDirection {
	case aseprite.LoopReverse:
		backward(t.To, t.From)
	case aseprite.LoopPingPong:
		forward(t.From, t.To)
		backward(t.To-1, t.From+1)
	case aseprite.LoopPingPongReverse:
		backward(t.To, t.From)
		forward(t.From+1, t.To-1)
	default:
		forward(t.From, t.To)
	}
	return order, loopCount(t.Repeat), nil
}

func findTag(doc *aseprite.Document, name string) *aseprite.Tag {
	for i := range doc.Tags {
		if doc.Tags[i].Name == name {
			return &doc.Tags[i]
		}
	}
	return nil
}

// loopCount converts a tag repeat count (0 is forever) into gif.GIF's
// LoopCount (0 is forever, -1 plays once, n plays n+1 times).
func loopCount(repeat int) int {
	switch repeat {
	case 0:
		return 0
	case 1:
		return -1
	}
	return repeat - 1
}
