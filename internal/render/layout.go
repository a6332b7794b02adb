package render

import "html/template"

var layoutTemplate = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}{{if .SiteTitle}} · {{.SiteTitle}}{{end}}</title>
{{- if .Description}}
<meta name="description" content="{{.Description}}">
{{- end}}
{{- if .Tags}}
<meta name="keywords" content="{{range $i, $t := .Tags}}{{if $i}},{{end}}{{$t}}{{end}}">
{{- end}}
{{- if .BaseURL}}
<link rel="canonical" href="{{.BaseURL}}">
{{- end}}
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; color: #1f2328; }
nav.outline { font-size: 0.9rem; border-left: 3px solid #d0d7de; padding-left: 1rem; margin: 1.5rem 0; }
nav.outline a { display: block; color: #0969da; text-decoration: none; }
nav.outline a.level-3 { padding-left: 1rem; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: ui-monospace, monospace; font-size: 0.92em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 0.35rem 0.75rem; }
.tags span { background: #ddf4ff; border-radius: 2em; padding: 0.15em 0.7em; margin-right: 0.4em; font-size: 0.85em; }
footer { margin-top: 3rem; font-size: 0.85rem; color: #57606a; }
</style>
</head>
<body>
<header>
{{- if .Tags}}
<p class="tags">{{range .Tags}}<span>{{.}}</span>{{end}}</p>
{{- end}}
</header>
{{- if .Nav}}
<nav class="outline">
{{- range .Nav}}
<a class="level-{{.Level}}" href="#{{.Anchor}}">{{.Text}}</a>
{{- end}}
</nav>
{{- end}}
<main>
{{.Body}}
</main>
<footer>
{{- if .Lastmod}}
<p>Last updated {{.Lastmod}}.</p>
{{- end}}
</footer>
{{- if .LiveReload}}
<script>
(function () {
  var current = null;
  var es = new EventSource("/livereload");
  es.onmessage = function (ev) {
    try {
      var msg = JSON.parse(ev.data);
      if (current === null) { current = msg.hash; return; }
      if (msg.hash !== current) { location.reload(); }
    } catch (e) { /* ignore malformed events */ }
  };
})();
</script>
{{- end}}
</body>
</html>
`))
