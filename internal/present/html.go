package present

import (
	"html/template"
	"io"
	"time"

	"github.com/gitfolio/gitfolio/internal/github"
)

// HTMLPage is the input of RenderHTML.
type HTMLPage struct {
	Title        string
	Profile      *github.Profile
	Repositories []github.Repository
	GeneratedAt  time.Time
}

// RenderHTML writes a standalone portfolio page for the given records.
//
// All record text (names, descriptions, languages, URLs) passes through
// html/template's contextual escaping. Repository metadata is
// attacker-controlled (anyone can name a repository "<img src=x
// onerror=...>"), so escaping here is a security requirement, not
// cosmetics.
func RenderHTML(w io.Writer, page HTMLPage) error {
	if page.GeneratedAt.IsZero() {
		page.GeneratedAt = time.Now()
	}
	return portfolioTemplate.Execute(w, page)
}

var portfolioTemplate = template.Must(template.New("portfolio").Funcs(template.FuncMap{
	"since": humanizeSince,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: #ffffff; --fg: #1f2328; --faint: #656d76;
  --card: #f6f8fa; --border: #d1d9e0; --accent: #0969da;
}
@media (prefers-color-scheme: dark) {
  :root {
    --bg: #0d1117; --fg: #e6edf3; --faint: #8b949e;
    --card: #161b22; --border: #30363d; --accent: #58a6ff;
  }
}
body {
  background: var(--bg); color: var(--fg);
  font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
  max-width: 56rem; margin: 0 auto; padding: 2rem 1rem;
}
a { color: var(--accent); text-decoration: none; }
header p { color: var(--faint); }
.cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(18rem, 1fr)); gap: 1rem; }
.card {
  background: var(--card); border: 1px solid var(--border);
  border-radius: 6px; padding: 1rem;
}
.card h3 { margin: 0 0 .5rem; }
.card p { margin: 0 0 .75rem; }
.meta { color: var(--faint); font-size: .85rem; }
.empty { color: var(--faint); border: 1px dashed var(--border); border-radius: 6px; padding: 2rem; text-align: center; }
footer { color: var(--faint); font-size: .8rem; margin-top: 2rem; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
{{- with .Profile}}
<p>{{.DisplayName}}{{with .BioText}} · {{.}}{{end}}</p>
{{- end}}
</header>
{{- if .Repositories}}
<div class="cards">
{{- range .Repositories}}
<div class="card">
<h3><a href="{{.HTMLURL}}">{{.Name}}</a></h3>
{{- with .DescriptionText}}
<p>{{.}}</p>
{{- end}}
<div class="meta">
{{- with .LanguageName}}{{.}} · {{end}}★ {{.Stars}}{{if not .UpdatedAt.IsZero}} · updated {{since .UpdatedAt}}{{end}}
</div>
</div>
{{- end}}
</div>
{{- else}}
<div class="empty">No repositories to show.</div>
{{- end}}
<footer>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} from public GitHub data.</footer>
</body>
</html>
`))
