package handle

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fortune-proxy/api/internal/fortune/types"
)

type Teller interface {
	Tell(ctx context.Context, body map[string]any) (*types.Response, error)
}

type Handle struct {
	svc      Teller
	log      *zap.Logger
	gatherer prometheus.Gatherer
}

func New(svc Teller, log *zap.Logger, gatherer prometheus.Gatherer) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{
		svc:      svc,
		log:      log,
		gatherer: gatherer,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func noStore(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
