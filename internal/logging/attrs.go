package logging

import (
	"context"
	"log/slog"
	"time"
)

// Keys for the identifiers that recur across backend calls.
const (
	FieldDeckID  = "deck_id"
	FieldCardID  = "card_id"
	FieldBookID  = "book_id"
	FieldDraftID = "draft_id"
	FieldBatchID = "batch_id"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func DeckID(id string) Attr { return slog.String(FieldDeckID, id) }

func CardID(id string) Attr { return slog.String(FieldCardID, id) }

func BookID(id string) Attr { return slog.String(FieldBookID, id) }

func DraftID(id string) Attr { return slog.String(FieldDraftID, id) }

func BatchID(id string) Attr { return slog.String(FieldBatchID, id) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func NewNop() *slog.Logger {
	return slog.New(discardHandler{})
}

// NewComponentLogger tags every record with component. A nil logger
// yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
