package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/fortune/types"
)

func sampleReading() fortune.Reading {
	return fortune.Reading{
		ID:        uuid.MustParse("4f1c2a1e-8f0b-4c1a-9d55-2b7e9a0c3d11"),
		CreatedAt: time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC),
		Request: types.FortuneRequest{
			Birth:   "1990-05-15",
			Methods: []string{"タロット"},
			Mode:    types.ModeUra,
		},
		Provider: "gpt",
		Model:    "gpt-4o-mini",
		Raw:      `{"title":"x"}`,
		Result:   types.FortuneResult{Title: "x"},
	}
}

func TestReadingRepo_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rd := sampleReading()
	mock.ExpectExec(regexp.QuoteMeta("insert into fortune_readings")).
		WithArgs(rd.ID.String(), rd.CreatedAt, "1990-05-15", "ura", `["タロット"]`,
			"gpt", "gpt-4o-mini", sqlmock.AnyArg(), `{"title":"x"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewReadingRepo(db).Record(context.Background(), rd))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepo_Record_NoMethods(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rd := sampleReading()
	rd.Request.Methods = nil
	// null -> jsonb_array_elements_text даёт пустой массив
	mock.ExpectExec(regexp.QuoteMeta("insert into fortune_readings")).
		WithArgs(rd.ID.String(), rd.CreatedAt, "1990-05-15", "ura", "null",
			"gpt", "gpt-4o-mini", sqlmock.AnyArg(), `{"title":"x"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewReadingRepo(db).Record(context.Background(), rd))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepo_Record_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("insert into fortune_readings").WillReturnError(errors.New("connection reset"))

	err = NewReadingRepo(db).Record(context.Background(), sampleReading())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert reading: connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepo_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("create table if not exists fortune_readings")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewReadingRepo(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepo_ImplementsRecorder(t *testing.T) {
	var _ fortune.Recorder = (*ReadingRepo)(nil)
}
