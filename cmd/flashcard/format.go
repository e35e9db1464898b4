package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/textutil"
)

// writeJSON encodes v as indented JSON on stdout. Nil slices print as []
// so scripts can always iterate the result.
func writeJSON(cmd *cobra.Command, v any) error {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		v = []struct{}{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cell(s string) string {
	s = textutil.PlainText(s)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	return s
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func formatPages(start, end *int) string {
	switch {
	case start == nil && end == nil:
		return "-"
	case start == nil:
		return fmt.Sprintf("-%d", *end)
	case end == nil || *start == *end:
		return fmt.Sprintf("%d", *start)
	default:
		return fmt.Sprintf("%d-%d", *start, *end)
	}
}

func formatQuota(q domain.StorageQuota) string {
	return fmt.Sprintf("%s of %s (%.0f%%), %d of %d files",
		humanize.IBytes(uint64(max(q.UsedBytes, 0))),
		humanize.IBytes(uint64(max(q.MaxBytes, 0))),
		q.UsedPercent(), q.FileCount, q.MaxFiles)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

func cardRows(cards []domain.Card) [][]string {
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{c.ID, cell(c.Front), cell(c.Back), c.HardnessLevel.String(), formatWhen(c.LastEdited)})
	}
	return rows
}

var cardHeaders = []string{"ID", "Front", "Back", "Hardness", "Edited"}

func draftRows(drafts []domain.DraftCard) [][]string {
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, []string{d.ID, cell(d.Front), cell(d.Back), d.Status.String(), formatPages(d.SourcePageStart, d.SourcePageEnd)})
	}
	return rows
}

var draftHeaders = []string{"ID", "Front", "Back", "Status", "Pages"}
