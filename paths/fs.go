package paths

import (
	"os"
	"path/filepath"
)

// EnvVar names the environment variable holding extra sprite directories,
// separated like $PATH.
const EnvVar = "ASEPRITE_PATH"

var extensions = []string{".aseprite", ".ase"}

// Dirs returns the directories Find searches, in order: every entry of
// $ASEPRITE_PATH, the working directory, ./testdata, and the testdata
// directory inside the binary's runfiles tree.
func Dirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv(EnvVar)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	dirs = append(dirs, ".", "testdata")
	if len(os.Args) > 0 {
		dirs = append(dirs, os.Args[0]+".runfiles/go_aseprite/testdata")
	}
	return dirs
}

func possiblePaths(fileName string) []string {
	names := []string{fileName}
	if filepath.Ext(fileName) == "" {
		for _, ext := range extensions {
			names = append(names, fileName+ext)
		}
	}
	if filepath.IsAbs(fileName) {
		return names
	}

	var paths []string
	for _, dir := range Dirs() {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
