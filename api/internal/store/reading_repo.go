package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fortune-proxy/api/internal/fortune"
)

// Применяется EnsureSchema при старте.
const Schema = `
create table if not exists fortune_readings (
    id           uuid primary key,
    created_at   timestamptz not null default now(),
    birth        date not null,
    tone         text not null,
    methods      text[] not null,
    provider     text not null,
    model        text not null,
    request_json jsonb not null,
    raw          text not null,
    result_json  jsonb not null
);
create index if not exists fortune_readings_created_at_idx on fortune_readings (created_at desc)`

type ReadingRepo struct{ DB *sql.DB }

func NewReadingRepo(db *sql.DB) *ReadingRepo { return &ReadingRepo{DB: db} }

func (r *ReadingRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure fortune_readings: %w", err)
	}
	return nil
}

// Record пишет одну запись; повтор того же id игнорируется.
func (r *ReadingRepo) Record(ctx context.Context, rd fortune.Reading) error {
	reqJS, err := json.Marshal(rd.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	resJS, err := json.Marshal(rd.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	methods, err := json.Marshal(rd.Request.Methods)
	if err != nil {
		return fmt.Errorf("marshal methods: %w", err)
	}

	const q = `
insert into fortune_readings(id, created_at, birth, tone, methods, provider, model, request_json, raw, result_json)
values ($1,$2,$3,$4,array(select jsonb_array_elements_text($5::jsonb)),$6,$7,$8,$9,$10)
on conflict (id) do nothing`
	_, err = r.DB.ExecContext(ctx, q,
		rd.ID.String(), rd.CreatedAt, rd.Request.Birth, string(rd.Request.Mode), string(methods),
		rd.Provider, rd.Model, reqJS, rd.Raw, resJS,
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}
