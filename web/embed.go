// Package web bundles the dashboard templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// TemplateGlobs lists the template sets in parse order. Pages reference the
// layouts and partials, so those come first.
var TemplateGlobs = []string{
	"layouts/*.html",
	"partials/*.html",
	"pages/*.html",
}

// Templates returns the template tree rooted at templates/.
func Templates() fs.FS {
	return mustSub("templates")
}

// Static returns the asset tree served under /static/.
func Static() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
