package service

import (
	"fmt"
	"strings"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
)

// Accepted parameter ranges. The handler enforces the same bounds at binding time.
const (
	MinYear  = 1920
	MaxYear  = 2100
	MaxLimit = 100
)

func checkPlayerID(field, id string) []FieldError {
	if strings.TrimSpace(id) == "" {
		return []FieldError{{Field: field, Message: "must not be empty"}}
	}
	return nil
}

func checkYear(field string, year int) []FieldError {
	if year < MinYear || year > MaxYear {
		return []FieldError{{Field: field, Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}}
	}
	return nil
}

func checkLimit(limit int) []FieldError {
	if limit < 1 || limit > MaxLimit {
		return []FieldError{{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}}
	}
	return nil
}

func validateWindow(w model.SeasonWindow) []FieldError {
	var ferrs []FieldError
	if w.From != nil {
		ferrs = append(ferrs, checkYear("from", *w.From)...)
	}
	if w.To != nil {
		ferrs = append(ferrs, checkYear("to", *w.To)...)
	}
	if w.From != nil && w.To != nil && *w.From > *w.To {
		ferrs = append(ferrs, FieldError{Field: "from", Message: "must not be after to"})
	}
	if w.MinSeasons < 1 {
		ferrs = append(ferrs, FieldError{Field: "minseasons", Message: "must be >= 1"})
	}
	return append(ferrs, checkLimit(w.Limit)...)
}

func validateLeaderQuery(q model.LeaderQuery) []FieldError {
	ferrs := checkYear("year", q.Year)
	ferrs = append(ferrs, checkLimit(q.Limit)...)
	if q.Minimum < 0 {
		ferrs = append(ferrs, FieldError{Field: "min", Message: "must be >= 0"})
	}
	return ferrs
}
