package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"todoApp/internal/handlers/dto"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Renderer struct {
	index *template.Template
}

func New() (*Renderer, error) {
	index, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{index: index}, nil
}

func (r *Renderer) RenderTasks(w io.Writer, page dto.ListPage) error {
	return r.index.Execute(w, page)
}
