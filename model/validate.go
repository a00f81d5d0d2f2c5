package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted on input
const DateLayout = "2006-01-02"

// NormalizeDate drops the time of day, keeping the calendar date in t's location,
// and returns it as midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses either a bare calendar date or an RFC 3339 timestamp
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NormalizeDate(t), nil
}

// FieldProblem describes one malformed field of a record
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p FieldProblem) String() string {
	return p.Field + ": " + p.Message
}

// Validate reports every malformed field. A record with no problems is safe to
// render without placeholders.
func (r Record) Validate() []FieldProblem {
	var problems []FieldProblem
	add := func(field, msg string) {
		problems = append(problems, FieldProblem{Field: field, Message: msg})
	}

	if strings.TrimSpace(r.InstitutionName) == "" {
		add("institutionName", "is required")
	}
	if strings.TrimSpace(r.CourseName) == "" {
		add("courseName", "is required")
	}
	if math.IsNaN(r.TuitionFee) || math.IsInf(r.TuitionFee, 0) || r.TuitionFee < 0 {
		add("tuitionFee", "must be a non-negative number")
	}
	if r.Semesters < 1 {
		add("numberOfSemesters", "must be at least 1")
	}
	if r.Deadline.IsZero() {
		add("applicationDeadline", "is required")
	}
	if !r.Status.Valid() {
		add("admissionStatus", fmt.Sprintf("unknown status %q", r.Status))
	}

	seen := make(map[ExamKind]bool, len(r.Exams))
	for _, e := range r.Exams {
		switch {
		case !e.Exam.Valid():
			add("requiredExams", fmt.Sprintf("unknown exam %q", e.Exam))
		case seen[e.Exam]:
			add("requiredExams", fmt.Sprintf("duplicate exam %s", e.Exam))
		case math.IsNaN(e.Score) || e.Score < 0:
			add("requiredExams", fmt.Sprintf("invalid score for %s", e.Exam))
		}
		seen[e.Exam] = true
	}
	return problems
}

// FieldValid reports whether the named JSON field passed validation
func FieldValid(problems []FieldProblem, field string) bool {
	for _, p := range problems {
		if p.Field == field {
			return false
		}
	}
	return true
}
