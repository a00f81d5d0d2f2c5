package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sri-maddineni/college-shortlister/model"
)

// FilterAndSort returns the records matching every criterion in the requested
// order. The input slice and its records are left untouched; ties keep their
// input order.
func FilterAndSort(records []model.Record, c Criteria) []model.Record {
	out := make([]model.Record, 0, len(records))
	location := fold(c.Location)
	for _, r := range records {
		if c.matches(r, location) {
			out = append(out, r)
		}
	}

	if cmpFn := comparator(c.Sort); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

// Matches reports whether a single record satisfies every criterion
func (c Criteria) Matches(r model.Record) bool {
	return c.matches(r, fold(c.Location))
}

func (c Criteria) matches(r model.Record, foldedLocation string) bool {
	if !c.FeeRange.Contains(r.TuitionFee) {
		return false
	}
	if c.Exam != "" && !r.HasExam(c.Exam) {
		return false
	}
	if foldedLocation != "" &&
		!strings.Contains(fold(r.City), foldedLocation) &&
		!strings.Contains(fold(r.Country), foldedLocation) {
		return false
	}
	if c.Status != "" && r.Status != c.Status {
		return false
	}
	if c.Course != "" && r.CourseName != c.Course {
		return false
	}
	return true
}

func comparator(key SortKey) func(a, b model.Record) int {
	switch key {
	case SortDeadlineAsc:
		return func(a, b model.Record) int { return compareDeadline(a, b, false) }
	case SortDeadlineDesc:
		return func(a, b model.Record) int { return compareDeadline(a, b, true) }
	case SortFeeAsc:
		return func(a, b model.Record) int { return cmp.Compare(a.TuitionFee, b.TuitionFee) }
	case SortFeeDesc:
		return func(a, b model.Record) int { return cmp.Compare(b.TuitionFee, a.TuitionFee) }
	}
	return nil
}

// undated records go last in both directions
func compareDeadline(a, b model.Record, desc bool) int {
	da, db := model.NormalizeDate(a.Deadline), model.NormalizeDate(b.Deadline)
	switch {
	case da.IsZero() && db.IsZero():
		return 0
	case da.IsZero():
		return 1
	case db.IsZero():
		return -1
	}
	if desc {
		return db.Compare(da)
	}
	return da.Compare(db)
}

// a Caser keeps state between calls, so each call gets its own
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// DistinctCourses returns the course names present in records, in first-seen order.
func DistinctCourses(records []model.Record) []string {
	seen := make(map[string]bool)
	var courses []string
	for _, r := range records {
		if r.CourseName == "" || seen[r.CourseName] {
			continue
		}
		seen[r.CourseName] = true
		courses = append(courses, r.CourseName)
	}
	return courses
}
