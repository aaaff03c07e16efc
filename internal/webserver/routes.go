package webserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/taskeval/evalboard/internal/report"
	"github.com/taskeval/evalboard/internal/store"
	"github.com/taskeval/evalboard/internal/webapi"
)

const reportPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>evalboard report</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.7rem; text-align: left; }
</style>
</head>
<body>
%s
</body>
</html>
`

// registerRoutes sets up the API and the HTML report on the given mux.
func registerRoutes(mux *http.ServeMux, st store.Store) {
	webapi.RegisterRoutes(mux, st)
	mux.HandleFunc("GET /report", handleReport(st))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/report", http.StatusFound)
	})
}

// handleReport renders the markdown evaluation report as HTML. GFM table
// support is required because the report leans on tables.
func handleReport(st store.Store) http.HandlerFunc {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	return func(w http.ResponseWriter, r *http.Request) {
		evals, err := st.FetchEvaluations(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		var body bytes.Buffer
		if err := md.Convert([]byte(report.FormatMarkdown(evals)), &body); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, reportPage, body.String()) //nolint:errcheck
	}
}
