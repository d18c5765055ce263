// Package web holds the browser conversation client served by the relay.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Index returns the chat page.
func Index() []byte {
	data, err := content.ReadFile("static/index.html")
	if err != nil {
		panic(err)
	}
	return data
}

// Assets returns the static files rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
