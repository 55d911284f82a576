package fortune

import "errors"

var ErrInvalidBirth = errors.New("birth must be a YYYY-MM-DD date")

// Текст ошибки провайдера отдаётся клиенту как есть.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
