// Package export renders grid contents outside the interactive view: HTML
// pages, plain text tables, TSV and Markdown.
package export

import (
	"embed"
	"io"

	"github.com/bekirdag/gridview/grid"
	"github.com/google/safehtml/template"
)

//go:embed templates/*
var templateFS embed.FS

var pageTemplate = template.Must(template.New("grid.html").ParseFS(
	template.TrustedFSFromEmbed(templateFS), "templates/grid.html"))

type page struct {
	Title string
	Tree  *grid.Node
}

// HTML writes tree as a standalone page. Every node becomes a div whose
// class lists its hooks, so selection and sort state stay queryable.
func HTML(w io.Writer, title string, tree *grid.Node) error {
	return pageTemplate.Execute(w, page{Title: title, Tree: tree})
}
