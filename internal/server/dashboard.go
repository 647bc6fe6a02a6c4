package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vector76/todo/internal/model"
	"github.com/vector76/todo/internal/store"
)

// dashboardData holds the template data for the dashboard.
type dashboardData struct {
	DataFile  string
	Pending   []model.Todo
	Completed []model.Todo
	Available int
	Capacity  int
	Theme     string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	all := s.source.List(store.ListFilters{})

	data := dashboardData{
		DataFile:  s.source.Path(),
		Available: s.source.Available(),
		Capacity:  store.Capacity,
		Theme:     themeFrom(r),
	}
	for _, t := range all.Todos {
		if t.Completed() {
			data.Completed = append(data.Completed, t)
		} else {
			data.Pending = append(data.Pending, t)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "dashboard", data); err != nil {
		s.log.Error().Err(err).Msg("rendering dashboard")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// todoDetailData holds the template data for the todo detail page.
type todoDetailData struct {
	Todo  model.Todo
	Theme string
}

func (s *Server) handleTodoDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, ok := s.source.Get(id)
	if !ok {
		http.Error(w, "todo not found", http.StatusNotFound)
		return
	}

	data := todoDetailData{Todo: t, Theme: themeFrom(r)}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "detail", data); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("rendering todo detail")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// themeFrom returns the theme stored in the request's cookie, if valid.
func themeFrom(r *http.Request) string {
	if c, err := r.Cookie("theme"); err == nil && (c.Value == "dark" || c.Value == "light") {
		return c.Value
	}
	return ""
}

func fmtTime(t time.Time) template.HTML {
	utc := t.UTC().Format(time.RFC3339)
	display := t.UTC().Format("2006-01-02 15:04")
	return template.HTML(`<time datetime="` + utc + `">` + display + `</time>`)
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟡"
	case model.PriorityLow:
		return "🟢"
	}
	return ""
}

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"fmtTime":        fmtTime,
	"priorityIcon":   priorityIcon,
	"renderMarkdown": renderMarkdown,
}).Parse(`
{{define "head"}}<!DOCTYPE html>
<html{{if .Theme}} data-theme="{{.Theme}}"{{end}}>
<head>
<meta charset="utf-8">
<style>
  :root {
    --color-text: #222;
    --color-bg-page: #fff;
    --color-link: #0366d6;
    --color-border: #ddd;
    --color-bg-header: #f5f5f5;
    --color-bg-badge: #f0f0f0;
    --color-bg-subtle: #fafafa;
    --color-text-muted: #666;
  }
  [data-theme="dark"] {
    --color-text: #e0e0e0;
    --color-bg-page: #121212;
    --color-link: #58a6ff;
    --color-border: #444;
    --color-bg-header: #2a2a2a;
    --color-bg-badge: #333;
    --color-bg-subtle: #1a1a1a;
    --color-text-muted: #aaa;
  }
  body { font-family: sans-serif; margin: 2em; color: var(--color-text); background: var(--color-bg-page); }
  a { color: var(--color-link); text-decoration: none; }
  a:hover { text-decoration: underline; }
  table { border-collapse: collapse; width: 100%; margin-bottom: 1em; }
  th, td { text-align: left; padding: 0.35em 0.7em; border: 1px solid var(--color-border); }
  th { background: var(--color-bg-header); }
  .muted { color: var(--color-text-muted); }
  .counts, .meta { display: flex; gap: 0.8em; flex-wrap: wrap; margin-bottom: 1em; }
  .counts div, .meta div { padding: 0.3em 0.7em; border-radius: 4px; background: var(--color-bg-badge); }
  .description { background: var(--color-bg-subtle); border: 1px solid var(--color-border); padding: 1em; border-radius: 4px; }
  .theme-toggle { position: fixed; top: 1em; right: 1em; padding: 0.4em 0.8em; border: 1px solid var(--color-border); border-radius: 4px; background: var(--color-bg-badge); color: var(--color-text); cursor: pointer; }
</style>
{{end}}

{{define "foot"}}
<script>
document.querySelectorAll("time[datetime]").forEach(function(el) {
  var d = new Date(el.getAttribute("datetime"));
  if (isNaN(d)) return;
  var pad = function(n) { return n < 10 ? "0" + n : "" + n; };
  el.textContent = d.getFullYear() + "-" + pad(d.getMonth()+1) + "-" + pad(d.getDate()) +
    " " + pad(d.getHours()) + ":" + pad(d.getMinutes());
});
var html = document.documentElement;
if (!html.hasAttribute("data-theme")) {
  html.setAttribute("data-theme", window.matchMedia("(prefers-color-scheme: dark)").matches ? "dark" : "light");
}
document.querySelector(".theme-toggle").addEventListener("click", function() {
  var next = html.getAttribute("data-theme") === "dark" ? "light" : "dark";
  html.setAttribute("data-theme", next);
  document.cookie = "theme=" + next + "; path=/; max-age=31536000";
});
</script>
</body>
</html>
{{end}}

{{define "rows"}}<table>
<tr><th>ID</th><th>Description</th><th>Priority</th><th>File</th><th>Created</th><th>Completed</th></tr>
{{range .}}<tr><td><a href="/todo/{{.ID}}">{{.ID}}</a></td><td>{{.Description}}</td><td>{{priorityIcon .Priority}} {{.Priority}}</td><td>{{.FilePath}}</td><td>{{fmtTime .CreatedAt}}</td><td>{{if .CompletedAt}}{{fmtTime .CompletedAt}}{{end}}</td></tr>
{{end}}</table>{{end}}

{{define "dashboard"}}{{template "head" .}}<title>Todos</title>
</head>
<body>
<button class="theme-toggle" aria-label="Toggle dark mode">◐</button>
<h1>Todos</h1>
<p class="muted">{{.DataFile}}</p>
<div class="counts">
  <div><strong>Pending:</strong> {{len .Pending}}</div>
  <div><strong>Completed:</strong> {{len .Completed}}</div>
  <div><strong>Free IDs:</strong> {{.Available}} / {{.Capacity}}</div>
</div>
{{if or .Pending .Completed}}
{{if .Pending}}<h2>Pending</h2>
{{template "rows" .Pending}}{{end}}
{{if .Completed}}<h2>Completed</h2>
{{template "rows" .Completed}}{{end}}
{{else}}<p>No todos found.</p>{{end}}
{{template "foot" .}}{{end}}

{{define "detail"}}{{template "head" .}}<title>#{{.Todo.ID}} {{.Todo.Description}}</title>
</head>
<body>
<button class="theme-toggle" aria-label="Toggle dark mode">◐</button>
<p><a href="/">&#8592; Todos</a></p>
<h1>Todo #{{.Todo.ID}}</h1>
<div class="meta">
  <div><strong>Status:</strong> {{.Todo.Status}}</div>
  <div><strong>Priority:</strong> {{priorityIcon .Todo.Priority}} {{.Todo.Priority}}</div>
  {{if .Todo.FilePath}}<div><strong>File:</strong> {{.Todo.FilePath}}</div>{{end}}
  <div><strong>Created:</strong> {{fmtTime .Todo.CreatedAt}}</div>
  {{if .Todo.CompletedAt}}<div><strong>Completed:</strong> {{fmtTime .Todo.CompletedAt}}</div>{{end}}
</div>
<div class="description">{{renderMarkdown .Todo.Description}}</div>
{{template "foot" .}}{{end}}
`))
