// Package render turns a CV into a downloadable document.
package render

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/justsurfingit/jobx/internal/models"
)

// Renderer produces the document bytes and the file extension to store them under.
type Renderer interface {
	Render(ctx context.Context, cv *models.CV) ([]byte, string, error)
}

var cvTemplate = template.Must(template.New("cv").Funcs(template.FuncMap{
	"lines": func(s string) []string {
		var out []string
		for _, l := range strings.Split(s, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
		return out
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.CV.Name}} - CV</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 32px; color: #222; }
header { display: flex; align-items: center; gap: 24px; border-bottom: 2px solid #2b6cb0; padding-bottom: 16px; }
header img { width: 96px; height: 96px; border-radius: 50%; object-fit: cover; }
h1 { margin: 0; font-size: 28px; }
h2 { color: #2b6cb0; font-size: 16px; text-transform: uppercase; margin-top: 24px; }
ul.skills { list-style: none; padding: 0; display: flex; flex-wrap: wrap; gap: 8px; }
ul.skills li { background: #ebf4ff; padding: 4px 10px; border-radius: 4px; }
</style>
</head>
<body>
<header>
{{if .Photo}}<img src="{{.Photo}}" alt="photo">{{end}}
<div>
<h1>{{.CV.Name}}</h1>
<div>{{.CV.Email}}{{if .CV.Phone}} &middot; {{.CV.Phone}}{{end}}</div>
</div>
</header>
{{with lines .CV.Education}}<h2>Education</h2>{{range .}}<p>{{.}}</p>{{end}}{{end}}
{{with lines .CV.Experience}}<h2>Experience</h2>{{range .}}<p>{{.}}</p>{{end}}{{end}}
{{with .CV.Skills}}<h2>Skills</h2><ul class="skills">{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
</body>
</html>
`))

type cvPage struct {
	CV    *models.CV
	Photo template.URL
}

func renderHTML(cv *models.CV, photo string) ([]byte, error) {
	var buf bytes.Buffer
	if err := cvTemplate.Execute(&buf, cvPage{CV: cv, Photo: template.URL(photo)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTMLRenderer stores the CV as a standalone HTML page.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(_ context.Context, cv *models.CV) ([]byte, string, error) {
	out, err := renderHTML(cv, cv.PhotoPath)
	return out, ".html", err
}
