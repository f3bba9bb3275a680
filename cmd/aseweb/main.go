// Command aseweb serves the sprites in a directory over HTTP: JSON
// manifests, frame and sheet PNGs, and tag GIFs.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-aseprite/aseprite"
	"badc0de.net/pkg/go-aseprite/paths"
	"badc0de.net/pkg/go-aseprite/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for aseweb")
	lenient       = flag.Bool("lenient", false, "accept files with a bad header magic number")
	banner        = flag.Bool("banner", true, "print a banner on startup")

	spriteDir string
)

func newRouter(dir string) http.Handler {
	r := mux.NewRouter()
	web.NewHandler(dir, &aseprite.Options{SkipMagicCheck: *lenient}).RegisterRoutes(r)
	// /debug/requests and /debug/events, registered by x/net/trace.
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)
	return handlers.CombinedLoggingHandler(os.Stderr, r)
}

func main() {
	paths.SetupDirFlag("sprite_dir", &spriteDir)
	flagutil.Parse()

	if *banner {
		figure.NewFigure("aseweb", "", true).Print()
	}
	glog.Infof("serving sprites from %q on %s", spriteDir, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, newRouter(spriteDir)))
}
