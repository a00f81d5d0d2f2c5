package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sri-maddineni/college-shortlister/model"
)

// ErrNotAnArray is returned when pasted data is not a JSON array of records
var ErrNotAnArray = errors.New("invalid JSON format: expected an array of colleges")

// importedRecord accepts every record shape earlier versions of the shortlist
// exported, alongside the current one.
type importedRecord struct {
	ID string `json:"id"`

	InstitutionName string `json:"institutionName"`
	UniversityName  string `json:"universityName"`
	Name            string `json:"name"`

	CourseName  string `json:"courseName"`
	CollegeName string `json:"collegeName"`
	Program     string `json:"program"`

	City     string `json:"city"`
	Country  string `json:"country"`
	Location *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`

	TuitionFee        float64 `json:"tuitionFee"`
	NumberOfSemesters int     `json:"numberOfSemesters"`
	Semesters         int     `json:"semesters"`

	ApplicationDeadline string          `json:"applicationDeadline"`
	AdmissionStatus     string          `json:"admissionStatus"`
	RequiredExams       json.RawMessage `json:"requiredExams"`
	IELTSScore          *float64        `json:"ieltsScore"`

	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// DecodeImport parses pasted JSON into records. Fields that cannot be understood
// are kept in a form that fails validation, so that the import can report them
// per record instead of rejecting the whole batch.
func DecodeImport(data []byte) ([]model.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrNotAnArray
	}

	var raw []importedRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	records := make([]model.Record, len(raw))
	for i, in := range raw {
		records[i] = in.toRecord()
	}
	return records, nil
}

func (in importedRecord) toRecord() model.Record {
	r := model.Record{
		ID:              in.ID,
		InstitutionName: firstNonEmpty(in.InstitutionName, in.UniversityName, in.Name),
		CourseName:      firstNonEmpty(in.CourseName, in.CollegeName, in.Program),
		City:            in.City,
		Country:         in.Country,
		TuitionFee:      in.TuitionFee,
		Semesters:       in.NumberOfSemesters,
		Notes:           firstNonEmpty(in.Description, in.Notes),
	}
	if in.Location != nil {
		r.City = firstNonEmpty(in.Location.City, r.City)
		r.Country = firstNonEmpty(in.Location.Country, r.Country)
	}
	if r.Semesters == 0 {
		r.Semesters = in.Semesters
	}

	if in.ApplicationDeadline != "" {
		// an unparseable date stays zero and is reported by validation
		r.Deadline, _ = model.ParseDate(in.ApplicationDeadline)
	}

	status, err := model.ParseAdmissionStatus(in.AdmissionStatus)
	if err != nil {
		status = model.AdmissionStatus(in.AdmissionStatus)
	}
	r.Status = status

	r.Exams = decodeExams(in.RequiredExams)
	if in.IELTSScore != nil && !r.HasExam(model.ExamIELTS) {
		r.Exams = append(r.Exams, model.ExamScore{Exam: model.ExamIELTS, Score: *in.IELTSScore})
	}
	return r
}

// decodeExams understands both [{"exam":"IELTS","score":6.5}] and ["IELTS","GRE"]
func decodeExams(raw json.RawMessage) model.ExamScores {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var entries []struct {
		Exam  string  `json:"exam"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(raw, &entries); err == nil {
		exams := make(model.ExamScores, 0, len(entries))
		for _, e := range entries {
			exams = append(exams, model.ExamScore{Exam: examKind(e.Exam), Score: e.Score})
		}
		return exams
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		exams := make(model.ExamScores, 0, len(names))
		for _, n := range names {
			exams = append(exams, model.ExamScore{Exam: examKind(n)})
		}
		return exams
	}

	return model.ExamScores{{Exam: model.ExamKind(strings.TrimSpace(string(raw)))}}
}

func examKind(s string) model.ExamKind {
	kind, err := model.ParseExamKind(s)
	if err != nil {
		return model.ExamKind(s)
	}
	return kind
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
