package usecase

import (
	"fmt"
	"strings"
	"time"

	"main/model"
)

// ApplyFilter derives the visible subset of notes for a predicate. A note is
// included iff its text contains the query as a case-insensitive substring
// (empty query matches all), its date is on or after the start bound, and on
// or before the end bound. Both bounds are inclusive and order is preserved.
//
// The full collection is re-scanned on every call. Note counts are tens to
// low hundreds, so an incremental index would buy nothing.
func ApplyFilter(notes []model.Note, predicate model.FilterPredicate) ([]model.Note, error) {
	if predicate.IsEmpty() {
		return notes, nil
	}

	start, hasStart, err := parseBound(predicate.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %v", err)
	}
	end, hasEnd, err := parseBound(predicate.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %v", err)
	}

	query := strings.ToLower(predicate.TextQuery)

	filtered := make([]model.Note, 0, len(notes))
	for _, note := range notes {
		if query != "" && !strings.Contains(strings.ToLower(note.NoteText), query) {
			continue
		}
		if hasStart || hasEnd {
			date, err := model.ParseDate(note.Date)
			if err != nil {
				// A note with an unparsable date can never satisfy a
				// date bound.
				continue
			}
			if hasStart && date.Before(start) {
				continue
			}
			if hasEnd && date.After(end) {
				continue
			}
		}
		filtered = append(filtered, note)
	}

	return filtered, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
