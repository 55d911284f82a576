package fortune

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fortune-proxy/api/internal/fortune/types"
	"fortune-proxy/api/internal/llm"
	"fortune-proxy/api/internal/metrics"
)

// Reading is one reading-log row.
type Reading struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Request   types.FortuneRequest
	Provider  string
	Model     string
	Raw       string
	Result    types.FortuneResult
}

// Recorder сохраняет Reading; ошибки только логируются.
type Recorder interface {
	Record(ctx context.Context, r Reading) error
}

type Options struct {
	Temperature float64
	Clock       Clock
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Recorder    Recorder
}

// Service обслуживает один запрос целиком. Состояния между запросами нет:
// поля заполняются в NewService и дальше не меняются.
type Service struct {
	engine      llm.Engine
	temperature float64
	clock       Clock
	log         *zap.Logger
	metrics     *metrics.Metrics
	recorder    Recorder
}

func NewService(engine llm.Engine, o Options) *Service {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Service{
		engine:      engine,
		temperature: o.Temperature,
		clock:       o.Clock,
		log:         o.Logger,
		metrics:     o.Metrics,
		recorder:    o.Recorder,
	}
}

// sanitize → профиль → политика → промпт → один вызов провайдера → нормализация.
// Ошибки: ErrInvalidBirth (клиент) и *UpstreamError (провайдер).
func (s *Service) Tell(ctx context.Context, body map[string]any) (*types.Response, error) {
	return s.TellWith(ctx, nil, body)
}

// TellWith делает то же, что Tell, но через указанный движок (nil значит движок по умолчанию).
func (s *Service) TellWith(ctx context.Context, engine llm.Engine, body map[string]any) (*types.Response, error) {
	if engine == nil {
		engine = s.engine
	}
	id := uuid.New()
	req := Sanitize(body)
	log := s.log.With(
		zap.String("request_id", id.String()),
		zap.String("tone", string(req.Mode)),
		zap.String("provider", engine.Name()),
	)

	birth, err := ParseYMD(req.Birth)
	if err != nil {
		s.metrics.ObserveRequest(string(req.Mode), "invalid_input")
		log.Info("rejecting request", zap.String("birth", req.Birth), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidBirth, err)
	}

	today := TodayJST(s.clock())
	prof := Profile(birth, today)
	pol := Decide(req.Mode, Age(birth, today), req.Methods)

	prompt := Compose(req, prof, pol, today)
	prompt.Temperature = s.temperature

	start := time.Now()
	raw, err := engine.Complete(ctx, prompt)
	s.metrics.ObserveUpstream(engine.Name(), time.Since(start))
	if err != nil {
		s.metrics.ObserveRequest(string(req.Mode), "upstream_error")
		log.Error("completion failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, &UpstreamError{Provider: engine.Name(), Err: err}
	}

	res, rep := Normalize(raw, pol, today)
	s.metrics.ObserveRepairs(rep.Repairs)
	if len(rep.Repairs) > 0 {
		log.Debug("normalizer repaired fields",
			zap.String("stage", string(rep.Stage)),
			zap.Strings("fields", rep.Repairs),
		)
	}
	if err := CheckResult(res); err != nil {
		log.Warn("normalized result violates schema", zap.Error(err))
	}
	res.Profile = &prof

	if s.recorder != nil {
		rd := Reading{
			ID:        id,
			CreatedAt: s.clock(),
			Request:   req,
			Provider:  engine.Name(),
			Model:     engine.GetModel(),
			Raw:       raw,
			Result:    res,
		}
		if err := s.recorder.Record(ctx, rd); err != nil {
			log.Warn("reading log write failed", zap.Error(err))
		}
	}

	s.metrics.ObserveRequest(string(req.Mode), "ok")
	log.Info("fortune told",
		zap.String("persona", string(pol.Persona.Key)),
		zap.String("stage", string(rep.Stage)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &types.Response{OK: true, Data: &res, Raw: raw}, nil
}
