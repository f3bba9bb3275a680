package paths

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	cache     map[string][]byte
	cacheLock sync.Mutex
)

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// openHTTP fetches url into memory. Bodies are kept for the life of the
// process, so repeated opens of the same URL are served from the cache.
func openHTTP(url string) (ReadSeekCloser, error) {
	cacheLock.Lock()
	defer cacheLock.Unlock()

	if cache == nil {
		cache = make(map[string][]byte)
	}
	if buf, ok := cache[url]; ok {
		glog.V(2).Infof("paths: %q served from cache", url)
		return &bytesReaderWithDummyClose{bytes.NewReader(buf)}, nil
	}

	glog.V(1).Infof("paths: fetching %q", url)
	response, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q): failed to fetch", url)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "paths.Open(%q): http response.StatusCode=%v, want 200", url, response.StatusCode)
	}

	// TODO(ivucica): Explore using ranged reads.
	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "copying response to seekable buffer")
	}
	cache[url] = buf
	return &bytesReaderWithDummyClose{bytes.NewReader(buf)}, nil
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
