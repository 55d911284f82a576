package handle

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var indexHTML []byte

func (h *Handle) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// Index отдаёт встроенную страницу-форму, на остальные пути 404.
func (h *Handle) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
