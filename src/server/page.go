package server

import (
	"html/template"
	"time"

	"index-dashboard/src/models"
	"index-dashboard/src/utils"
)

// -----------------------------------------------------------------------------
// Page template
// -----------------------------------------------------------------------------

var pageFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(utils.DateLayout)
	},
	"selected": func(values []string, v string) bool {
		for _, s := range values {
			if s == v {
				return true
			}
		}
		return false
	},
	"fields": func() []models.MPriceField { return models.PriceFields },
	"cell": func(row models.MReferenceRow, column string) string {
		return row.Cells[column]
	},
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: sans-serif; display: flex; color: #262730; }
aside { width: 300px; min-height: 100vh; padding: 1rem 1.5rem; background: #f0f2f6; box-sizing: border-box; }
main { flex: 1; padding: 1rem 2rem; overflow-x: auto; }
select[multiple] { width: 100%; min-height: 8rem; }
fieldset { border: 1px solid #d0d3da; margin: 1rem 0; }
.help { font-size: 0.8rem; color: #6b6f7b; }
.prompt { padding: 0.8rem 1rem; background: #e8f0fe; border-radius: 4px; }
.market { font-size: 0.9rem; color: #6b6f7b; }
table { border-collapse: collapse; font-size: 0.85rem; }
th, td { border: 1px solid #e0e2e8; padding: 0.2rem 0.5rem; text-align: left; }
</style>
</head>
<body>
<aside>
<form method="get" action="/" id="selection">
<h2>Customize Stock Price</h2>

<label for="sector">Sector</label>
<select multiple name="sector" id="sector" onchange="this.form.submit()">
{{- range .SectorOptions}}
<option value="{{.}}"{{if selected $.SelectedSectors .}} selected{{end}}>{{.}}</option>
{{- end}}
</select>

{{- if .SymbolOptions}}
<label for="symbol">Symbol</label>
<select multiple name="symbol" id="symbol" onchange="this.form.submit()">
{{- range .SymbolOptions}}
<option value="{{.}}"{{if selected $.SelectedSymbols .}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
{{- end}}

{{- range .Charts}}
<fieldset>
<legend>{{.Symbol}}</legend>
<label>Type
<select name="field.{{.Symbol}}" onchange="this.form.submit()">
{{- $field := .Params.Field}}
{{- range fields}}
<option value="{{.}}"{{if eq . $field}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
</label>
<label>Start date
<input type="date" name="start.{{.Symbol}}" value="{{date .Params.Start}}" min="{{date $.DateBounds.Min}}" max="{{date $.DateBounds.Max}}" onchange="this.form.submit()">
</label>
<label>End date
<input type="date" name="end.{{.Symbol}}" value="{{date .Params.End}}" min="{{date $.DateBounds.Min}}" max="{{date $.DateBounds.Max}}" onchange="this.form.submit()">
</label>
<p class="help">Prices are year-to-date daily values. Choose a range within {{date $.DateBounds.Min}} and {{date $.DateBounds.Max}}.</p>
</fieldset>
{{- end}}
<noscript><button type="submit">Apply</button></noscript>
</form>
</aside>

<main>
<h1>{{.Title}}</h1>
<p>This app retrieves the list of the S&amp;P 500 from Wikipedia and its corresponding daily stock prices from Yahoo Finance.</p>
<p class="market">{{.Market.Exchange}} is {{if .Market.Open}}open{{else}}closed{{end}}. Last trading session: {{date .Market.LastTradingDay}}.</p>

{{- if .Table}}
<h2>Display Companies in Selected Sector</h2>
<p>{{.TableDimension}}</p>
<table>
<thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range $row := .Table.Rows}}
<tr>{{range $.Table.Columns}}<td>{{cell $row .}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}

{{- if .Prompt}}
<p class="prompt">{{.Prompt}}</p>
{{- end}}

{{- range .Charts}}
<section class="chart">
<h3>{{.Subheader}}</h3>
{{.SVG}}
</section>
{{- end}}
</main>
</body>
</html>
`
