package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		ID:              "7b0c6f0e-5f7e-4d7b-9f0b-0d2f3c1a9e11",
		InstitutionName: "TU Munich",
		CourseName:      "MSc Informatics",
		City:            "Munich",
		Country:         "Germany",
		TuitionFee:      3000,
		Semesters:       4,
		Deadline:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:          StatusApplied,
		Exams: ExamScores{
			{Exam: ExamTOEFL, Score: 95},
			{Exam: ExamIELTS, Score: 6.5},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid record has no problems", func(t *testing.T) {
		assert.Empty(t, validRecord().Validate())
	})

	t.Run("reports every malformed field", func(t *testing.T) {
		r := validRecord()
		r.InstitutionName = "  "
		r.TuitionFee = -1
		r.Semesters = 0
		r.Deadline = time.Time{}
		r.Status = "pending"
		r.Exams = append(r.Exams, ExamScore{Exam: ExamIELTS, Score: 7})

		problems := r.Validate()
		fields := make([]string, 0, len(problems))
		for _, p := range problems {
			fields = append(fields, p.Field)
		}
		assert.ElementsMatch(t, []string{
			"institutionName", "tuitionFee", "numberOfSemesters",
			"applicationDeadline", "admissionStatus", "requiredExams",
		}, fields)
		assert.False(t, FieldValid(problems, "tuitionFee"))
		assert.True(t, FieldValid(problems, "courseName"))
	})
}

func TestParseAdmissionStatus(t *testing.T) {
	cases := map[string]AdmissionStatus{
		"applied":                StatusApplied,
		"Admission Received":     StatusAdmitted,
		"admission not obtained": StatusDenied,
		"Need to Apply":          StatusNotApplied,
		"To apply":               StatusNotApplied,
		"Deadline passed":        StatusNotApplied,
		"":                       "",
	}
	for in, want := range cases {
		got, err := ParseAdmissionStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAdmissionStatus("waitlisted")
	assert.Error(t, err)
}

func TestParseExamKind(t *testing.T) {
	k, err := ParseExamKind("ielts")
	require.NoError(t, err)
	assert.Equal(t, ExamIELTS, k)

	_, err = ParseExamKind("SAT")
	assert.Error(t, err)
}

func TestRecordJSONAcceptsLegacyLabels(t *testing.T) {
	raw := `{"id":"x","institutionName":"A","courseName":"B","city":"Pune","country":"India",
		"tuitionFee":100,"numberOfSemesters":2,"applicationDeadline":"2024-06-01T00:00:00Z",
		"admissionStatus":"Admission Received","requiredExams":[{"exam":"gre","score":310}]}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, StatusAdmitted, r.Status)
	assert.Equal(t, ExamGRE, r.Exams[0].Exam)
	assert.Equal(t, "Pune, India", r.Location())
}

func TestCloneIsDeep(t *testing.T) {
	orig := validRecord()
	snap := Snapshot([]Record{orig})
	snap[0].Exams[0].Score = 1
	snap[0].InstitutionName = "changed"

	assert.Equal(t, 95.0, orig.Exams[0].Score)
	assert.Equal(t, "TU Munich", orig.InstitutionName)
	assert.Nil(t, Snapshot(nil))
}

func TestSortedExams(t *testing.T) {
	r := validRecord()
	sorted := r.SortedExams()
	require.Len(t, sorted, 2)
	assert.Equal(t, ExamIELTS, sorted[0].Exam)
	assert.Equal(t, ExamTOEFL, sorted[1].Exam)
	assert.Equal(t, ExamTOEFL, r.Exams[0].Exam, "source order untouched")
}

func TestDatesAreNormalized(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	d := NormalizeDate(time.Date(2024, 6, 1, 23, 30, 0, 0, ist))
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	parsed, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(d))

	_, err = ParseDate("01/06/2024")
	assert.Error(t, err)

	r := validRecord()
	assert.True(t, r.DeadlinePassed(time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC)))
	assert.False(t, r.DeadlinePassed(time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)))
}
