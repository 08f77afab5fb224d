package report

import (
	"html/template"
	"io"

	"github.com/gobeaver/archivekit"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Validation Report</title>
</head>
<body>
<h1>Validation Report</h1>
<table border="1">
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr><td>{{.File}}</td><td>{{.Type}}</td><td>{{.Result}}</td><td>{{.Details}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

func writeHTML(w io.Writer, records []archivekit.Record) error {
	return htmlTemplate.Execute(w, struct {
		Header []string
		Rows   []Row
	}{
		Header: Header,
		Rows:   Rows(records),
	})
}
