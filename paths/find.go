package paths

import (
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ReadSeekCloser is what Open returns: the decoder wants to seek, and the
// caller has to close.
type ReadSeekCloser interface {
	io.ReadCloser
	io.Seeker
}

// Find locates the passed sprite short name and returns an absolute or
// relative path to find the sprite at. Names without an extension are also
// tried with ".aseprite" and ".ase".
//
// For example, for "hero" it may return
// "mybinary.runfiles/go_aseprite/testdata/hero.aseprite".
//
// URLs are returned unchanged. An empty string means nothing was found.
func Find(fileName string) string {
	if isURL(fileName) {
		return fileName
	}
	for _, path := range possiblePaths(fileName) {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look, and
// opens it. If Find returns an empty string, an error is returned.
//
// http:// and https:// names are fetched into memory instead.
func Open(fileName string) (ReadSeekCloser, error) {
	if isURL(fileName) {
		return openHTTP(fileName)
	}
	path := Find(fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "paths.Open(%q): not found in %v", fileName, Dirs())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q)", fileName)
	}
	return f, nil
}
