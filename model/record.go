package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Record represents one tracked application target (an institution and program)
type Record struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id" yaml:"id"`
	InstitutionName string          `gorm:"not null;index" json:"institutionName" yaml:"institutionName"`
	CourseName      string          `gorm:"not null;index" json:"courseName" yaml:"courseName"`
	City            string          `gorm:"type:varchar(255)" json:"city" yaml:"city"`
	Country         string          `gorm:"type:varchar(255)" json:"country" yaml:"country"`
	TuitionFee      float64         `gorm:"not null;default:0" json:"tuitionFee" yaml:"tuitionFee"`
	Semesters       int             `gorm:"not null;default:1" json:"numberOfSemesters" yaml:"numberOfSemesters"`
	Deadline        time.Time       `gorm:"type:date;index" json:"applicationDeadline" yaml:"applicationDeadline"`
	Status          AdmissionStatus `gorm:"type:varchar(32);not null;default:'not_applied'" json:"admissionStatus" yaml:"admissionStatus"`
	Exams           ExamScores      `gorm:"type:jsonb" json:"requiredExams" yaml:"requiredExams"`
	Notes           string          `gorm:"type:text" json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt       time.Time       `json:"-" yaml:"-"`
	UpdatedAt       time.Time       `json:"-" yaml:"-"`
}

// ExamScore is a required score for one exam kind
type ExamScore struct {
	Exam  ExamKind `json:"exam" yaml:"exam"`
	Score float64  `json:"score" yaml:"score"`
}

// ExamScores is stored as a JSON column
type ExamScores = datatypes.JSONSlice[ExamScore]

// TableName overrides the default GORM table name
func (Record) TableName() string {
	return "records"
}

// Location joins city and country the way every view displays them
func (r Record) Location() string {
	city := strings.TrimSpace(r.City)
	country := strings.TrimSpace(r.Country)
	switch {
	case city == "":
		return country
	case country == "":
		return city
	}
	return city + ", " + country
}

// HasExam reports whether the record requires the given exam
func (r Record) HasExam(kind ExamKind) bool {
	for _, e := range r.Exams {
		if e.Exam == kind {
			return true
		}
	}
	return false
}

// SortedExams returns the exam entries in enum order without touching the record.
func (r Record) SortedExams() []ExamScore {
	out := make([]ExamScore, 0, len(r.Exams))
	for _, kind := range ExamKinds {
		for _, e := range r.Exams {
			if e.Exam == kind {
				out = append(out, e)
			}
		}
	}
	// unknown kinds keep their relative order at the end
	for _, e := range r.Exams {
		if !e.Exam.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	c := r
	if r.Exams != nil {
		c.Exams = make(ExamScores, len(r.Exams))
		copy(c.Exams, r.Exams)
	}
	return c
}

// Snapshot deep-copies a record sequence so that renderers can work on it while the
// source collection keeps changing.
func Snapshot(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// DeadlinePassed reports whether the deadline lies strictly before the day of now.
func (r Record) DeadlinePassed(now time.Time) bool {
	if r.Deadline.IsZero() {
		return false
	}
	return r.Deadline.Before(NormalizeDate(now))
}
