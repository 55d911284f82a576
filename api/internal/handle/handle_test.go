package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/option"

	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/llm"
	"fortune-proxy/api/internal/llm/gemini"
	"fortune-proxy/api/internal/metrics"
)

type stubEngine struct {
	reply string
	err   error
}

func (s stubEngine) Name() string     { return "stub" }
func (s stubEngine) GetModel() string { return "stub-1" }
func (s stubEngine) Complete(context.Context, llm.Prompt) (string, error) {
	return s.reply, s.err
}

type envelope struct {
	OK    bool           `json:"ok"`
	Data  map[string]any `json:"data"`
	Raw   string         `json:"raw"`
	Error string         `json:"error"`
}

func newServer(t *testing.T, eng llm.Engine) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := fortune.NewService(eng, fortune.Options{
		Temperature: 0.9,
		Clock:       func() time.Time { return time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC) },
		Logger:      zaptest.NewLogger(t),
		Metrics:     metrics.New(reg),
	})
	mux := http.NewServeMux()
	New(svc, zaptest.NewLogger(t), reg).Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, reg
}

func postFortune(t *testing.T, srv *httptest.Server, body string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/fortune", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestFortune_PastChanceDayReplaced(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: `{"title":"x", "chance_days":["2000-01-01"]}`})

	resp, env := postFortune(t, srv, `{"birth":"1990-05-15","methods":["タロット"]}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
	assert.Equal(t, "0", resp.Header.Get("Expires"))

	assert.True(t, env.OK)
	assert.Equal(t, `{"title":"x", "chance_days":["2000-01-01"]}`, env.Raw)
	assert.Equal(t, "x", env.Data["title"])
	assert.Equal(t, []any{"2026-10-25", "2026-11-01", "2026-11-08"}, env.Data["chance_days"])
	assert.Equal(t, []any{}, env.Data["advice"])
	assert.Equal(t, "黄緑", env.Data["lucky_color"])
	assert.Equal(t, "normal", env.Data["tone"])
	assert.Contains(t, env.Data, "tarot_card")
	assert.Contains(t, env.Data, "profile")
}

func TestFortune_ProseWithEmbeddedObject(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: `結果です {"lucky_number": 42} 以上`})

	resp, env := postFortune(t, srv, `{"birth":"1990-05-15"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", env.Data["lucky_number"])
	assert.Equal(t, "運命の糸がほどけ、光が射す", env.Data["title"])
	assert.Equal(t, "静かな追い風が、あなたを望む方角へ。", env.Data["lead"])
	assert.Equal(t, "", env.Data["overview"])
	assert.Equal(t, []any{}, env.Data["keywords"])
}

func TestFortune_UpstreamFailure(t *testing.T) {
	srv, reg := newServer(t, stubEngine{err: errors.New("dial tcp 10.0.0.1:443: connect: connection refused")})

	resp, env := postFortune(t, srv, `{"birth":"1990-05-15"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, env.OK)
	assert.NotEmpty(t, env.Error)
	assert.Contains(t, env.Error, "connection refused")
	assert.Nil(t, env.Data)
	assert.Empty(t, resp.Header.Get("Cache-Control"))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestFortune_UnknownModeIsStandard(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: `{}`})

	for _, body := range []string{
		`{"birth":"1990-05-15"}`,
		`{"birth":"1990-05-15","mode":"chaos"}`,
		`{"birth":"1990-05-15","tone":42}`,
	} {
		resp, env := postFortune(t, srv, body)
		assert.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.Equal(t, "normal", env.Data["tone"], body)
		assert.NotContains(t, env.Data, "ranking", body)
	}
}

func TestFortune_UraHasRanking(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: `{}`})

	_, env := postFortune(t, srv, `{"birth":"1990-05-15","tone":"ura"}`)
	assert.Equal(t, "ura", env.Data["tone"])
	assert.Equal(t, "言い訳はいらん、進むで", env.Data["title"])
	assert.Equal(t, map[string]any{"foods": []any{}, "spots": []any{}, "items": []any{}}, env.Data["ranking"])
}

func TestFortune_BadInput(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: `{}`})

	for _, body := range []string{``, `not json`, `{"birth":"1990/05/15"}`, `{"gender":"女性"}`, `null`} {
		resp, env := postFortune(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.False(t, env.OK, body)
		assert.Contains(t, env.Error, "YYYY-MM-DD", body)
	}
}

func TestFortune_MethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t, stubEngine{})

	resp, err := http.Get(srv.URL + "/fortune")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
}

func TestFortune_CORSPreflight(t *testing.T) {
	srv, _ := newServer(t, stubEngine{})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/fortune", nil)
	req.Header.Set("Origin", "https://example.test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://example.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPingIndexMetrics(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: `{}`})
	postFortune(t, srv, `{"birth":"1990-05-15"}`)

	tests := []struct {
		path        string
		code        int
		contentType string
		contains    string
	}{
		{"/ping", http.StatusOK, "text/plain", "OK"},
		{"/", http.StatusOK, "text/html", "田橋 矢男無"},
		{"/nope", http.StatusNotFound, "", ""},
		{"/metrics", http.StatusOK, "text/plain", `fortune_requests_total{outcome="ok",tone="normal"} 1`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.code, resp.StatusCode)
			if tt.contentType != "" {
				assert.Contains(t, resp.Header.Get("Content-Type"), tt.contentType)
			}
			var sb strings.Builder
			_, _ = io.Copy(&sb, resp.Body)
			assert.Contains(t, sb.String(), tt.contains)
		})
	}
}

func postRaw(t *testing.T, srv *httptest.Server, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/fortune", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return resp.StatusCode, m
}

func TestFortune_EmptyReplyKeepsRawAndDefaults(t *testing.T) {
	srv, _ := newServer(t, stubEngine{reply: ""})

	code, m := postRaw(t, srv, `{"birth":"1990-05-15"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, m["ok"])
	require.Contains(t, m, "raw")
	assert.Equal(t, "", m["raw"])
	assert.NotContains(t, m, "error")
	data := m["data"].(map[string]any)
	assert.NotEmpty(t, data["title"])
	assert.Len(t, data["chance_days"], 3)
}

func TestFortune_ErrorEnvelopeHasNoRaw(t *testing.T) {
	srv, _ := newServer(t, stubEngine{err: errors.New("timeout")})

	code, m := postRaw(t, srv, `{"birth":"1990-05-15"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]any{"ok": false, "error": "timeout"}, m)
}

func TestFortune_GeminiEmptyCandidateRecovered(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"STOP"}]}`))
	}))
	defer upstream.Close()

	srv, _ := newServer(t, gemini.New("test-key", "gemini-2.5-flash", option.WithEndpoint(upstream.URL)))

	code, m := postRaw(t, srv, `{"birth":"1990-05-15"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, m["ok"])
	assert.Equal(t, "", m["raw"])
	data := m["data"].(map[string]any)
	assert.Equal(t, "黄緑", data["lucky_color"])
	assert.Equal(t, "7", data["lucky_number"])
}

func TestFortune_UpstreamFailureLoggedOnceAtError(t *testing.T) {
	svc := fortune.NewService(stubEngine{err: errors.New("timeout")}, fortune.Options{
		Clock:   func() time.Time { return time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC) },
		Logger:  zap.NewNop(),
		Metrics: metrics.New(prometheus.NewRegistry()),
	})
	core, logs := observer.New(zapcore.DebugLevel)
	mux := http.NewServeMux()
	New(svc, zap.New(core), prometheus.NewRegistry()).Routes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	code, _ := postRaw(t, srv, `{"birth":"1990-05-15"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	// error-level запись пишет сервис, хендлер только debug
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("fortune failed").FilterLevelExact(zapcore.DebugLevel).Len())
}
