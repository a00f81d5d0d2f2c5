package export

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sri-maddineni/college-shortlister/model"
)

// Placeholder stands in for a malformed field value
const Placeholder = "—"

const (
	humanDate      = "January 2, 2006"
	humanTimestamp = "January 2, 2006 15:04 MST"
	examDelimiter  = "; "
)

// FormatFee renders a tuition fee as US dollars with digit grouping
func FormatFee(fee float64) string {
	if math.IsNaN(fee) || math.IsInf(fee, 0) || fee < 0 {
		return Placeholder
	}
	p := message.NewPrinter(language.AmericanEnglish)
	if fee == math.Trunc(fee) && fee < 1e15 {
		return p.Sprintf("$%d", int64(fee))
	}
	return p.Sprintf("$%.2f", fee)
}

// FormatDate renders a deadline as a human calendar date
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return model.NormalizeDate(t).Format(humanDate)
}

// FormatSemesters renders the program duration
func FormatSemesters(n int) string {
	switch {
	case n < 1:
		return Placeholder
	case n == 1:
		return "1 semester"
	}
	return strconv.Itoa(n) + " semesters"
}

// FormatScore prints scores without trailing zeros ("6.5", "100")
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// FormatExams joins every exam entry as "kind: score"
func FormatExams(r model.Record) string {
	exams := r.SortedExams()
	if len(exams) == 0 {
		return "None"
	}
	parts := make([]string, len(exams))
	for i, e := range exams {
		parts[i] = string(e.Exam) + ": " + FormatScore(e.Score)
	}
	return strings.Join(parts, examDelimiter)
}

func formatStatus(s model.AdmissionStatus) string {
	if !s.Valid() {
		return Placeholder
	}
	return s.Label()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// recordView holds the display strings of one record, with placeholders for the
// fields that failed validation.
type recordView struct {
	Name      string
	Program   string
	Location  string
	Duration  string
	Fee       string
	Deadline  string
	Status    string
	Exams     []string
	ExamsLine string
	Notes     string
}

func newRecordView(r model.Record, problems []model.FieldProblem) recordView {
	v := recordView{
		Name:     orPlaceholder(r.InstitutionName),
		Program:  orPlaceholder(r.CourseName),
		Location: orPlaceholder(r.Location()),
		Duration: FormatSemesters(r.Semesters),
		Fee:      FormatFee(r.TuitionFee),
		Deadline: FormatDate(r.Deadline),
		Status:   formatStatus(r.Status),
		Notes:    strings.TrimSpace(r.Notes),
	}
	if model.FieldValid(problems, "requiredExams") {
		v.ExamsLine = FormatExams(r)
		for _, e := range r.SortedExams() {
			v.Exams = append(v.Exams, string(e.Exam)+": "+FormatScore(e.Score))
		}
	} else {
		v.ExamsLine = Placeholder
		v.Exams = []string{Placeholder}
	}
	return v
}

var cp1252 = charmap.Windows1252

// pdfText converts UTF-8 to the cp1252 bytes expected by the PDF core fonts.
// Characters outside cp1252 lose their diacritics when possible and become '?'
// otherwise.
func pdfText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := cp1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		stripped, _, err := transform.String(stripMarks(), string(r))
		wrote := false
		if err == nil {
			for _, sr := range stripped {
				if c, ok := cp1252.EncodeRune(sr); ok {
					b.WriteByte(c)
					wrote = true
				}
			}
		}
		if !wrote {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
