package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/fortune/types"
)

const (
	maxBodyBytes   = 64 << 10
	fortuneTimeout = 120 * time.Second
)

func (h *Handle) Fortune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, types.Response{Error: "POST only"})
		return
	}

	// битый JSON = пустое тело; дальше всё равно упадёт на birth
	body := map[string]any{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil || body == nil {
		body = map[string]any{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), fortuneTimeout)
	defer cancel()

	resp, err := h.svc.Tell(ctx, body)
	switch {
	case err == nil:
		noStore(w)
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, fortune.ErrInvalidBirth):
		writeJSON(w, http.StatusBadRequest, types.Response{Error: err.Error()})
	default:
		msg := err.Error()
		if msg == "" {
			msg = "server error"
		}
		// сервис уже залогировал с request_id
		h.log.Debug("fortune failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, types.Response{Error: msg})
	}
}
