//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/golang/glog"
	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

var kittySizeReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

// GetTermSize asks the controlling tty for its size in cells and, where the
// terminal reports it, in pixels.
func GetTermSize() (TermSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err != nil {
		return stdinTermSize()
	}
	// based on snippet: https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
	defer f.Close()
	sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return stdinTermSize()
	}
	ts := TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}
	if ts.WSXPixel == 0 && ts.WSYPixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
		glog.V(1).Infof("aseprint: no pixel size from ioctl, asking kitty")
		if w, h, ok := kittyPixelSize(f); ok {
			ts.WSXPixel, ts.WSYPixel = w, h
		}
	}
	return ts, nil
}

// kittyPixelSize sends CSI 14 t and parses the <ESC>[4;<height>;<width>t
// reply from stdin.
func kittyPixelSize(tty *os.File) (uint, uint, bool) {
	state, err := terminal.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer terminal.Restore(int(tty.Fd()), state)

	fmt.Printf("\033[14t")
	// TODO(ivucica): Add a timeout; a terminal that does not answer blocks here.
	reader := bufio.NewReader(os.Stdin)
	if b, err := reader.ReadByte(); err != nil || b != 033 {
		return 0, 0, false
	}
	s, err := reader.ReadString('t')
	if err != nil {
		return 0, 0, false
	}
	m := kittySizeReply.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, 0, false
	}
	h, errH := strconv.Atoi(m[1])
	w, errW := strconv.Atoi(m[2])
	if errH != nil || errW != nil {
		return 0, 0, false
	}
	return uint(w), uint(h), true
}

func stdinTermSize() (TermSize, error) {
	w, h, err := terminal.GetSize(0)
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{WSRow: uint(h), WSCol: uint(w)}, nil
}
