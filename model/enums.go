package model

import (
	"fmt"
	"strings"
)

// AdmissionStatus is the application state of a record
type AdmissionStatus string

const (
	StatusNotApplied AdmissionStatus = "not_applied"
	StatusApplied    AdmissionStatus = "applied"
	StatusAdmitted   AdmissionStatus = "admitted"
	StatusDenied     AdmissionStatus = "denied"
)

// AdmissionStatuses lists every status in display order
var AdmissionStatuses = []AdmissionStatus{StatusNotApplied, StatusApplied, StatusAdmitted, StatusDenied}

var statusLabels = map[AdmissionStatus]string{
	StatusNotApplied: "Need to Apply",
	StatusApplied:    "Applied",
	StatusAdmitted:   "Admission Received",
	StatusDenied:     "Admission Not Obtained",
}

// older exports used free-form labels for the same states
var statusAliases = map[string]AdmissionStatus{
	"to apply":           StatusNotApplied,
	"not yet applied":    StatusNotApplied,
	"deadline passed":    StatusNotApplied,
	"admission denied":   StatusDenied,
	"admission rejected": StatusDenied,
}

// Label returns the human readable name of the status
func (s AdmissionStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses
func (s AdmissionStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s AdmissionStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *AdmissionStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseAdmissionStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseAdmissionStatus accepts enum values, labels and legacy aliases, case-insensitively.
// An empty string parses to the empty status.
func ParseAdmissionStatus(s string) (AdmissionStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", nil
	}
	for _, st := range AdmissionStatuses {
		if key == string(st) || key == strings.ToLower(st.Label()) {
			return st, nil
		}
	}
	if st, ok := statusAliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown admission status %q (allowed: %s)", s, joinValues(AdmissionStatuses))
}

// ExamKind identifies a standardized test
type ExamKind string

const (
	ExamIELTS    ExamKind = "IELTS"
	ExamTOEFL    ExamKind = "TOEFL"
	ExamGRE      ExamKind = "GRE"
	ExamDuolingo ExamKind = "Duolingo"
)

// ExamKinds lists every exam kind in display order
var ExamKinds = []ExamKind{ExamIELTS, ExamTOEFL, ExamGRE, ExamDuolingo}

func (k ExamKind) Valid() bool {
	for _, known := range ExamKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k ExamKind) MarshalText() ([]byte, error) {
	return []byte(k), nil
}

func (k *ExamKind) UnmarshalText(b []byte) error {
	parsed, err := ParseExamKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseExamKind matches exam names case-insensitively. An empty string parses to the
// empty kind.
func ParseExamKind(s string) (ExamKind, error) {
	key := strings.TrimSpace(s)
	if key == "" {
		return "", nil
	}
	for _, k := range ExamKinds {
		if strings.EqualFold(key, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown exam %q (allowed: %s)", s, joinValues(ExamKinds))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
