package portal

import (
	"html/template"
	"net/http"
)

// The portal renders three small pages: status, success, and error. Styling
// is kept inline so the portal has no static assets to serve.

const pageStyle = `body{font-family:sans-serif;padding:50px;background:#f0f2f5;display:flex;justify-content:center}
.card{max-width:500px;background:#fff;padding:40px;border-radius:15px;box-shadow:0 4px 20px rgba(0,0,0,.1);text-align:center}
.btn{display:inline-block;padding:12px 24px;background:#1a73e8;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;margin-top:15px}
hr{border:0;border-top:1px solid #eee;margin:20px 0}`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>Google Workspace MCP</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1>Google Workspace MCP</h1>
{{if .Authenticated}}<p style="color:#4caf50;font-weight:bold;font-size:18px">Authenticated</p>
{{else}}<p style="color:#f44336;font-weight:bold;font-size:18px">Not Authenticated</p>{{end}}
<hr>
<a class="btn" href="/login">Authorize with Google</a>
</div></body></html>
`))

var successTmpl = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html><head><title>Authenticated</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1 style="color:#4caf50">Authenticated!</h1>
<p>Token saved. You can now use Google services through MCP.</p>
<a class="btn" href="/">Back to Portal</a>
</div></body></html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html><head><title>Error</title><style>` + pageStyle + `</style></head>
<body><div class="card">
<h1 style="color:#f44336">Error</h1>
<p>{{.Message}}</p>
<a class="btn" href="/login">Try Again</a>
</div></body></html>
`))

type indexData struct {
	Authenticated bool
}

type errorData struct {
	Message string
}

func renderIndex(w http.ResponseWriter, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = indexTmpl.Execute(w, data)
}

func renderSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = successTmpl.Execute(w, nil)
}

func renderError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = errorTmpl.Execute(w, errorData{Message: err.Error()})
}
