package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// assets holds the storefront templates and the css served below /static.
//
//go:embed static templates
var assets embed.FS

// templatesFS roots the embedded templates so views are named without directory.
func templatesFS() http.FileSystem {
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		panic(err) // only fails for an invalid literal path
	}

	return http.FS(sub)
}
