// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"fmt"
	"html/template"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HTMLSection is a titled group of key/value rows.
type HTMLSection struct {
	Title string
	Rows  []HTMLRow
}

// HTMLRow is a single key/value pair of an HTMLSection.
type HTMLRow struct {
	Key   string
	Value string
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"title": func(s string) string { return cases.Title(language.English, cases.NoLower).String(s) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; min-width: 40em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{- range .Sections }}
<h2>{{ title .Title }}</h2>
<table>
<tr><th>Key</th><th>Value</th></tr>
{{- range .Rows }}
<tr><td>{{ .Key }}</td><td>{{ .Value }}</td></tr>
{{- end }}
</table>
{{- end }}
</body>
</html>
`))

// WriteHTML renders sections as a standalone HTML page. Section titles are
// title-cased; keys and values are escaped.
func WriteHTML(w io.Writer, title string, sections []HTMLSection) error {
	data := struct {
		Title    string
		Sections []HTMLSection
	}{
		Title:    title,
		Sections: sections,
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}
