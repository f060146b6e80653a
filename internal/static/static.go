// Package static embeds the portfolio front end so the binary ships as a
// single artifact.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web/*
var content embed.FS

// FileSystem returns an http.FileSystem for the embedded site files
func FileSystem() http.FileSystem {
	// Strip the "web" prefix from paths
	fsys, err := fs.Sub(content, "web")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// Handler returns an http.Handler that serves the embedded site
func Handler() http.Handler {
	return http.FileServer(FileSystem())
}
