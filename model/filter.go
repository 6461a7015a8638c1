package model

// FilterPredicate is the current search text plus optional date bounds used
// to derive the visible note subset. Empty fields mean "no constraint"; an
// entirely empty predicate matches every note.
type FilterPredicate struct {
	TextQuery string `form:"q" json:"q"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

// IsEmpty reports whether the predicate places no constraint at all.
func (p FilterPredicate) IsEmpty() bool {
	return p.TextQuery == "" && p.StartDate == "" && p.EndDate == ""
}
