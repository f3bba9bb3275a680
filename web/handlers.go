package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-aseprite/aseprite"
	"badc0de.net/pkg/go-aseprite/export"
)

// generation is part of every ETag; bump if the way responses are generated
// changes.
const generation = 1

var extensions = []string{".aseprite", ".ase"}

type cacheEntry struct {
	modTime time.Time
	size    int64
	doc     *aseprite.Document
}

type Handler struct {
	spriteDir string
	opts      aseprite.Options

	group     singleflight.Group
	cacheLock sync.Mutex
	cache     map[string]cacheEntry

	// decodes counts decodes actually performed.
	decodes int64
}

// NewHandler constructs a web handler serving the sprites found in
// spriteDir. Decoded documents are kept until the file on disk changes.
func NewHandler(spriteDir string, opts *aseprite.Options) *Handler {
	h := &Handler{
		spriteDir: spriteDir,
		cache:     make(map[string]cacheEntry),
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sprites.json", h.listHandler)
	r.HandleFunc("/sprite/{name:[A-Za-z0-9_-]+}.json", h.manifestHandler)
	r.HandleFunc("/sprite/{name:[A-Za-z0-9_-]+}.gif", h.gifHandler)
	r.HandleFunc("/sprite/{name:[A-Za-z0-9_-]+}/sheet.png", h.sheetHandler)
	r.HandleFunc("/sprite/{name:[A-Za-z0-9_-]+}/frame/{fr:[0-9]+}.png", h.frameHandler)
}

// locate finds the file backing sprite name.
func (h *Handler) locate(name string) (string, os.FileInfo, error) {
	for _, ext := range extensions {
		path := filepath.Join(h.spriteDir, name+ext)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, st, nil
		}
	}
	return "", nil, errors.Wrapf(os.ErrNotExist, "sprite %q", name)
}

// sprite returns the decoded document for name, decoding it at most once per
// file version no matter how many requests ask concurrently.
func (h *Handler) sprite(name string) (*aseprite.Document, os.FileInfo, error) {
	path, st, err := h.locate(name)
	if err != nil {
		return nil, nil, err
	}

	if doc := h.cached(path, st); doc != nil {
		return doc, st, nil
	}

	key := fmt.Sprintf("%s@%d:%d", path, st.ModTime().UnixNano(), st.Size())
	v, err, shared := h.group.Do(key, func() (interface{}, error) {
		// A flight that finished just before this one started has already
		// filled the cache.
		if doc := h.cached(path, st); doc != nil {
			return doc, nil
		}
		tr := trace.New("web.decode", name)
		defer tr.Finish()
		atomic.AddInt64(&h.decodes, 1)
		doc, err := aseprite.DecodeFile(path, &h.opts)
		if err != nil {
			tr.LazyPrintf("%v", err)
			tr.SetError()
			return nil, err
		}
		tr.LazyPrintf("%s: %d frames, %d layers", path, len(doc.Frames), len(doc.Layers))
		h.cacheLock.Lock()
		h.cache[path] = cacheEntry{modTime: st.ModTime(), size: st.Size(), doc: doc}
		h.cacheLock.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, nil, err
	}
	glog.V(2).Infof("web: decoded %s (shared=%v)", path, shared)
	return v.(*aseprite.Document), st, nil
}

func (h *Handler) cached(path string, st os.FileInfo) *aseprite.Document {
	h.cacheLock.Lock()
	defer h.cacheLock.Unlock()
	e, ok := h.cache[path]
	if ok && e.modTime.Equal(st.ModTime()) && e.size == st.Size() {
		return e.doc
	}
	return nil
}

func spriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	glog.Errorf("web: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// serve looks up the sprite named in the route, answers conditional requests
// from the ETag, and otherwise renders the response into memory so that a
// render failure can still become a 500.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, variant, mime string, render func(doc *aseprite.Document, out io.Writer) error) {
	name := mux.Vars(r)["name"]
	doc, st, err := h.sprite(name)
	if err != nil {
		spriteError(w, err)
		return
	}

	etag := fmt.Sprintf(`W/"sprite:%d:%s:%x:%d:%s:%s"`, generation, name, st.ModTime().UnixNano(), st.Size(), variant, mime)
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	buf := &bytes.Buffer{}
	if err := render(doc, buf); err != nil {
		glog.Errorf("web: rendering %s %s: %v", name, variant, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", st.ModTime().UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) manifestHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	inline := r.URL.Query().Get("inline") != ""
	h.serve(w, r, "manifest:"+strconv.FormatBool(inline), "application/json", func(doc *aseprite.Document, out io.Writer) error {
		m, err := export.NewManifest(doc, name, inline)
		if err != nil {
			return err
		}
		return m.Encode(out)
	})
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag != "" {
		doc, _, err := h.sprite(mux.Vars(r)["name"])
		if err != nil {
			spriteError(w, err)
			return
		}
		if _, _, err := export.FrameOrder(doc, tag); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}
	h.serve(w, r, "gif:"+tag, "image/gif", func(doc *aseprite.Document, out io.Writer) error {
		g, err := export.GIF(doc, tag)
		if err != nil {
			return err
		}
		return gif.EncodeAll(out, g)
	})
}

func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "sheet", "image/png", func(doc *aseprite.Document, out io.Writer) error {
		sheet, _, err := export.Sheet(doc)
		if err != nil {
			return err
		}
		return png.Encode(out, sheet)
	})
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	fr, err := strconv.Atoi(mux.Vars(r)["fr"])
	if err != nil {
		http.Error(w, "fr not a number", http.StatusBadRequest)
		return
	}
	doc, _, err := h.sprite(mux.Vars(r)["name"])
	if err != nil {
		spriteError(w, err)
		return
	}
	if fr >= len(doc.Frames) {
		http.Error(w, fmt.Sprintf("frame %d out of range, sprite has %d", fr, len(doc.Frames)), http.StatusBadRequest)
		return
	}
	h.serve(w, r, "frame:"+strconv.Itoa(fr), "image/png", func(doc *aseprite.Document, out io.Writer) error {
		img, err := doc.FrameImage(fr)
		if err != nil {
			return err
		}
		return png.Encode(out, img)
	})
}

// listHandler returns the names of the sprites in the sprite directory.
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.spriteDir)
	if err != nil {
		glog.Errorf("web: listing %s: %v", h.spriteDir, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range extensions {
			if strings.HasSuffix(e.Name(), ext) {
				names = append(names, strings.TrimSuffix(e.Name(), ext))
				break
			}
		}
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	json.NewEncoder(w).Encode(names)
}
