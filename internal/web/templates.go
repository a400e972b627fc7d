package web

import (
	"html/template"

	"squash-trivia/internal/trivia"
)

var funcs = template.FuncMap{
	"status": func(s trivia.Status) string { return s.String() },
}

var templates = template.Must(template.New("").Funcs(funcs).Parse(pageHTML + sectionHTML + tableHTML + listHTML + dashboardHTML))

const pageHTML = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Squash Trivia</title>
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/wordcloud2.js/1.2.2/wordcloud2.min.js"></script>
    <script src="/config.js"></script>
    <style>` + pageCSS + `</style>
</head>
<body>
<div class="squash-trivia-wrapper" data-sid="{{.SID}}">
    <header>
        <h1>Squash Trivia</h1>
        <p class="subtitle">Curious facts from the world's squash venues</p>
    </header>
    {{range .Sections}}
    <section id="{{.Mount}}" class="trivia-section" data-section="{{.ID}}">
        <h2>{{.Title}}</h2>
        <div class="trivia-body"><div class="trivia-loading">Loading...</div></div>
    </section>
    {{end}}
</div>
<script>` + pageJS + `</script>
</body>
</html>
{{end}}`

const sectionHTML = `
{{define "section"}}<div class="trivia-fragment" data-status="{{status .Status}}" data-gen="{{.Gen}}">
{{if eq (status .Status) "failed"}}
    <div class="trivia-error">{{.Err}} <a href="#" class="trivia-retry" data-action="retry">Try again</a></div>
{{else if eq (status .Status) "loaded"}}
    {{if .Stats}}<div class="trivia-stats">{{range .Stats}}
        <div class="stat-item"><span class="stat-value" id="{{.ID}}">{{.Value}}</span><span class="stat-label">{{.Label}}</span></div>{{end}}
    </div>{{end}}
    {{if .HasList}}<a href="#" class="view-list-link" data-action="list">View list</a>{{end}}
    {{if .Filters}}<div class="trivia-filters">{{range .Filters}}
        <label>{{.Label}}
            <select id="{{.ID}}" data-filter="{{.Type}}">{{range .Options}}
                <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
            </select>
        </label>{{end}}
    </div>{{end}}
    {{if .Tabs}}<div class="trivia-tabs">{{range .Tabs}}
        <button type="button" class="trivia-tab{{if .Active}} active{{end}}" data-tab="{{.Key}}">{{.Label}}</button>{{end}}
    </div>{{end}}
    {{with .Map}}<div class="trivia-map" id="{{.Mount}}"></div>
    <script type="application/json" class="map-spec">{{.JSON}}</script>{{end}}
    {{with .Cloud}}<div class="cloud-legend"><small>Color bands:</small>{{range .Legend}}
        <span class="badge" style="background-color: {{.Color}}">{{.Label}} ({{.Count}})</span>{{end}}
    </div>
    <canvas id="{{.Mount}}" width="1200" height="800" class="word-cloud"></canvas>
    <script type="application/json" class="cloud-spec">{{.JSON}}</script>{{end}}
    {{range .Panels}}<div id="{{.ID}}" class="table-container tab-content{{if .Active}} active{{else}} hidden{{end}}">{{template "table" .Table}}</div>{{end}}
{{else}}
    <div class="trivia-loading">Loading...</div>
{{end}}
</div>{{end}}`

const tableHTML = `
{{define "table"}}<table id="{{.ID}}" class="trivia-table{{if .Sortable}} sortable{{end}}">
    <thead><tr>{{$t := .}}{{range $i, $c := .Columns}}<th{{if $t.Sortable}} data-col="{{$i}}" class="{{$t.HeaderClass $i}}"{{end}}>{{$c}}</th>{{end}}</tr></thead>
    <tbody>{{if and (not .Rows) .Empty}}
        <tr><td colspan="{{.Colspan}}">{{.Empty}}</td></tr>{{end}}{{range .Rows}}
        <tr{{with .Class}} class="{{.}}"{{end}}>{{range .Cells}}<td{{with .ID}} id="{{.}}"{{end}}>{{if .Badge}}<span class="{{.Badge}}">{{.Text}}</span>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>{{end}}
    </tbody>{{if .Footer}}
    <tfoot><tr>{{range .Footer}}<td{{with .ID}} id="{{.}}"{{end}}>{{.Text}}</td>{{end}}</tr></tfoot>{{end}}
</table>{{end}}`

const listHTML = `
{{define "list"}}<div class="modal-overlay" data-action="close">
    <div class="modal-content">
        <h3>{{.Title}}</h3>
        <ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
        <p class="modal-hint">Click anywhere to close</p>
    </div>
</div>{{end}}`

const dashboardHTML = `
{{define "dashboard"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Squash Stats Dashboard</title>{{range .Assets}}{{if eq .Kind "style"}}
    <link rel="stylesheet" id="{{.Name}}-css" href="{{.URL}}">{{end}}{{end}}
</head>
<body>
<div class="squash-dashboard-wrapper">{{.Content}}</div>{{range .Assets}}{{if eq .Kind "script"}}
<script id="{{.Name}}-js" src="{{.URL}}"></script>{{end}}{{end}}
</body>
</html>
{{end}}`
