// Command aseprint prints the frames of Aseprite sprites on a terminal.
//
//	aseprint [flags] hero.aseprite [more.ase ...]
//
// Sprite names without a path are looked up in $ASEPRITE_PATH, the working
// directory and ./testdata.
package main

import (
	"flag"
	"fmt"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-aseprite/aseprite"
	"badc0de.net/pkg/go-aseprite/export"
	"badc0de.net/pkg/go-aseprite/imageprint"
	"badc0de.net/pkg/go-aseprite/paths"
)

var (
	info     = flag.Bool("info", false, "print a summary of each sprite instead of its pixels")
	frame    = flag.Int("frame", -1, "frame to print; -1 prints every frame")
	tag      = flag.String("tag", "", "print the frames of this tag, in playback order")
	lenient  = flag.Bool("lenient", false, "accept files with a bad header magic number")
	col      = flag.Bool("col", true, "whether to use color at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with rasterm library, supporting kitty, iterm and sixel")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink frames to fit the terminal")

	spritePath string
)

type sprite struct {
	name string
	doc  *aseprite.Document
}

// decodeAll decodes every named sprite concurrently. Each decode has its own
// session, so nothing is shared between goroutines but the result slots.
func decodeAll(names []string, opts *aseprite.Options) ([]sprite, error) {
	sprites := make([]sprite, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			f, err := paths.Open(name)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := aseprite.DecodeOptions(f, opts)
			if err != nil {
				return fmt.Errorf("%s: %v", name, err)
			}
			sprites[i] = sprite{name: name, doc: doc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sprites, nil
}

// framesToPrint lists the frames selected by -frame and -tag.
func framesToPrint(doc *aseprite.Document) ([]int, error) {
	if *frame >= 0 {
		if *frame >= len(doc.Frames) {
			return nil, fmt.Errorf("frame %d out of range, sprite has %d", *frame, len(doc.Frames))
		}
		return []int{*frame}, nil
	}
	order, _, err := export.FrameOrder(doc, *tag)
	return order, err
}

func main() {
	paths.SetupFilePathFlag("sprite.aseprite", "sprite_path", &spritePath)
	flagutil.Parse()

	names := flag.Args()
	if len(names) == 0 && spritePath != "" {
		names = []string{spritePath}
	}
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] sprite.aseprite...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	sprites, err := decodeAll(names, &aseprite.Options{SkipMagicCheck: *lenient})
	if err != nil {
		glog.Errorf("decoding: %v", err)
		os.Exit(1)
	}

	for _, s := range sprites {
		if *info {
			imageprint.PrintInfo(os.Stdout, s.doc, s.name)
			continue
		}
		frames, err := framesToPrint(s.doc)
		if err != nil {
			glog.Errorf("%s: %v", s.name, err)
			os.Exit(1)
		}
		for _, fr := range frames {
			if err := imageprint.PrintFrame(os.Stdout, s.doc, fr, outputMode(), *blanks, s.name, fit); err != nil {
				glog.Errorf("%s: %v", s.name, err)
				os.Exit(1)
			}
		}
	}
}
