// Command asetool converts Aseprite sprites for use outside the editor.
//
//	asetool info hero.aseprite
//	asetool gif -tag walk -o walk.gif hero.aseprite
//	asetool sheet -o hero.png hero.aseprite
//	asetool manifest -inline hero.aseprite > hero.json
package main

import (
	"flag"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"

	"badc0de.net/pkg/go-aseprite/aseprite"
	"badc0de.net/pkg/go-aseprite/export"
	"badc0de.net/pkg/go-aseprite/imageprint"
	"badc0de.net/pkg/go-aseprite/paths"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func decode(c *cli.Context) (*aseprite.Document, string, error) {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	name := c.Args().First()
	f, err := paths.Open(name)
	if err != nil {
		return nil, name, cli.NewExitError(err, 1)
	}
	defer f.Close()

	doc, err := aseprite.DecodeOptions(f, &aseprite.Options{SkipMagicCheck: c.Bool("lenient")})
	if err != nil {
		return nil, name, cli.NewExitError(fmt.Sprintf("%s: %v", name, err), 1)
	}
	return doc, name, nil
}

// output opens the -o file, or stdout when it is empty or "-".
func output(c *cli.Context) (io.WriteCloser, error) {
	path := c.String("o")
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func write(c *cli.Context, encode func(w io.Writer) error) error {
	w, err := output(c)
	if err != nil {
		return err
	}
	if err := encode(w); err != nil {
		w.Close()
		return cli.NewExitError(err, 1)
	}
	if err := w.Close(); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

var outFlag = &cli.StringFlag{
	Name:    "o",
	Aliases: []string{"output"},
	Usage:   "write to `FILE` instead of stdout",
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "asetool"
	app.Usage = "Aseprite sprite conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "lenient",
			EnvVars: []string{"ASETOOL_LENIENT"},
			Usage:   "accept files with a bad header magic number",
		},
		&cli.StringFlag{
			Name:    "path",
			EnvVars: []string{paths.EnvVar},
			Usage:   "sprite search path, separated like $PATH",
		},
	}
	app.Before = func(c *cli.Context) error {
		if p := c.String("path"); p != "" {
			return os.Setenv(paths.EnvVar, p)
		}
		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Summarize layers, frames, tags and slices",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				doc, name, err := decode(c)
				if err != nil {
					return err
				}
				imageprint.PrintInfo(c.App.Writer, doc, name)
				return nil
			},
		},
		{
			Name:      "gif",
			Usage:     "Render an animated GIF of the sprite or one of its tags",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outFlag,
				&cli.StringFlag{
					Name:  "tag",
					Usage: "only the frames of tag `NAME`, in playback order",
				},
			},
			Action: func(c *cli.Context) error {
				doc, _, err := decode(c)
				if err != nil {
					return err
				}
				g, err := export.GIF(doc, c.String("tag"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				return write(c, func(w io.Writer) error { return gif.EncodeAll(w, g) })
			},
		},
		{
			Name:      "sheet",
			Usage:     "Render every frame side by side into one PNG",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{outFlag},
			Action: func(c *cli.Context) error {
				doc, _, err := decode(c)
				if err != nil {
					return err
				}
				sheet, _, err := export.Sheet(doc)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				return write(c, func(w io.Writer) error { return png.Encode(w, sheet) })
			},
		},
		{
			Name:      "manifest",
			Usage:     "Describe the sprite as JSON",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outFlag,
				&cli.BoolFlag{
					Name:  "inline",
					Usage: "embed every frame as a PNG data URL",
				},
			},
			Action: func(c *cli.Context) error {
				doc, name, err := decode(c)
				if err != nil {
					return err
				}
				m, err := export.NewManifest(doc, name, c.Bool("inline"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				return write(c, m.Encode)
			},
		},
	}
	return app
}

func main() {
	// Flags belong to urfave/cli; this only tells glog parsing happened.
	flag.CommandLine.Parse([]string{})
	defer glog.Flush()

	if err := newApp().Run(os.Args); err != nil {
		glog.Exit(err)
	}
}
