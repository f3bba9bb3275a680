// Package imageprint prints sprite frames on a terminal. UNSUPPORTED debug
// package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
)

// Mode selects how pixels are drawn.
type Mode int

const (
	// NoColor prints plain characters. Only makes sense with blanks off.
	NoColor Mode = iota
	// Color256 uses gookit/color, which picks the best escape sequences
	// the terminal supports.
	Color256
	// TrueColor writes 24-bit background escape sequences.
	TrueColor
	// ITerm writes a single inline PNG using iTerm2's protocol.
	ITerm
	// RasTerm uses whatever graphics protocol rasterm detects.
	RasTerm
)

func shade(w io.Writer, col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if noColor {
			fmt.Fprint(w, "  ")
		} else {
			fmt.Fprint(w, "\x1b[0m  ")
		}
		return
	}
	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)

	cell := "  "
	if !blanks {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			cell = ".."
		case a < 64:
			cell = "--"
		case a < 128:
			cell = "=="
		default:
			cell = "##"
		}
	}

	switch {
	case noColor:
		fmt.Fprint(w, cell)
	case escapesTrueColor:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, cell)
	default:
		fmt.Fprint(w, color.RGB(r, g, b, true).Sprintf("%s", cell))
	}
}

func printCells(w io.Writer, i image.Image, trueColor, blanks, noColor bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), trueColor, blanks, noColor)
		}
		if !noColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprint(w, "\n")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) {
	printCells(w, i, false, blanks, false)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) {
	printCells(w, i, true, blanks, false)
}

// PrintNoColor draws an image without using color escape sequences.
func PrintNoColor(w io.Writer, i image.Image, blanks bool) {
	printCells(w, i, false, blanks, true)
}

// PrintITerm draws an image using iTerm2's escape sequences, if running on
// iTerm or WezTerm.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	writeITerm(w, i, fn)
}

func writeITerm(w io.Writer, i image.Image, fn string) {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	bEnc.Close()
	fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}

// Print draws i in the passed mode. fn names the image for protocols that
// carry a file name.
func Print(w io.Writer, i image.Image, mode Mode, blanks bool, fn string) {
	switch mode {
	case NoColor:
		PrintNoColor(w, i, blanks)
	case TrueColor:
		Print24bit(w, i, blanks)
	case ITerm:
		PrintITerm(w, i, fn)
	case RasTerm:
		PrintRasTerm(w, i)
	default:
		Print256Color(w, i, blanks)
	}
}
