package googlegenai

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/RichardKnop/petrag"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

type templates struct {
	answer   *template.Template
	converse *template.Template
	judge    *template.Template
	intent   *template.Template
}

func loadTemplates(dir string) (*templates, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(builtinTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	parse := func(name string) (*template.Template, error) {
		t, err := template.New(name).Funcs(template.FuncMap{
			"evidence":     petrag.RenderEvidence,
			"insufficient": func() string { return petrag.InsufficientEvidence },
			"trim":         strings.TrimSpace,
		}).ParseFS(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		return t, nil
	}

	var (
		t   templates
		err error
	)
	if t.answer, err = parse("answer.tmpl"); err != nil {
		return nil, err
	}
	if t.converse, err = parse("converse.tmpl"); err != nil {
		return nil, err
	}
	if t.judge, err = parse("judge.tmpl"); err != nil {
		return nil, err
	}
	if t.intent, err = parse("intent.tmpl"); err != nil {
		return nil, err
	}

	return &t, nil
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", t.Name(), err)
	}
	return b.String(), nil
}
