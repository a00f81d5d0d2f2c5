package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-maddineni/college-shortlister/model"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Now: func() time.Time { return fixedNow }}
}

func sampleRecords() []model.Record {
	return []model.Record{
		{
			ID:              "a1",
			InstitutionName: "University of Toronto",
			CourseName:      "MEng Computer Engineering",
			City:            "Toronto",
			Country:         "Canada",
			TuitionFee:      15000,
			Semesters:       4,
			Deadline:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Status:          model.StatusNotApplied,
			Exams:           model.ExamScores{{Exam: model.ExamIELTS, Score: 6.5}, {Exam: model.ExamGRE, Score: 310}},
			Notes:           "Scholarship deadline is two weeks earlier.",
		},
		{
			ID:              "b2",
			InstitutionName: "Universität Zürich",
			CourseName:      "MSc Informatik",
			City:            "Zürich",
			Country:         "Switzerland",
			TuitionFee:      1500.5,
			Semesters:       3,
			Deadline:        time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			Status:          model.StatusApplied,
		},
		{
			ID:              "c3",
			InstitutionName: "Tokyo Tech",
			CourseName:      "Robotics",
			City:            "Tokyo",
			Country:         "Japan",
			TuitionFee:      0,
			Semesters:       1,
			Deadline:        time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			Status:          model.StatusAdmitted,
			Exams:           model.ExamScores{{Exam: model.ExamTOEFL, Score: 100}},
			Notes:           "東京 campus — \"quotes\" and \\ backslashes",
		},
	}
}

func manyRecords(n int) []model.Record {
	base := sampleRecords()
	out := make([]model.Record, n)
	for i := range out {
		r := base[i%len(base)].Clone()
		r.ID = strings.Repeat("x", i%7) + string(rune('a'+i%26))
		r.Notes = strings.Repeat("Long notes that wrap over several lines of the page. ", i%5)
		out[i] = r
	}
	return out
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$15,000", FormatFee(15000))
	assert.Equal(t, "$1,500.50", FormatFee(1500.5))
	assert.Equal(t, "$0", FormatFee(0))
	assert.Equal(t, Placeholder, FormatFee(-1))

	assert.Equal(t, "June 1, 2024", FormatDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Placeholder, FormatDate(time.Time{}))

	assert.Equal(t, "1 semester", FormatSemesters(1))
	assert.Equal(t, "4 semesters", FormatSemesters(4))
	assert.Equal(t, Placeholder, FormatSemesters(0))

	assert.Equal(t, "IELTS: 6.5; GRE: 310", FormatExams(sampleRecords()[0]))
	assert.Equal(t, "None", FormatExams(sampleRecords()[1]))
}

func TestPDFText(t *testing.T) {
	assert.Equal(t, "Z\xfcrich", pdfText("Zürich"))
	assert.Equal(t, "\x97", pdfText("—"))
	assert.Equal(t, "??", pdfText("東京"))
	assert.Equal(t, "o", pdfText("ō"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"pdf": FormatPDF, ".DOCX": FormatDOCX, "word": FormatDOCX, "json": FormatJSON, "zip": FormatBundle} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xls")
	assert.Error(t, err)
}

func TestAppendixEncodingIsASCII(t *testing.T) {
	data, err := EncodeAppendix(sampleRecords())
	require.NoError(t, err)
	for _, b := range data {
		require.Less(t, b, byte(0x80))
	}

	back, err := DecodeAppendix(data)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleRecords(), back); diff != "" {
		t.Errorf("appendix mismatch (-want +got):\n%s", diff)
	}

	empty, err := EncodeAppendix(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestRenderPDFRoundTrip(t *testing.T) {
	records := sampleRecords()
	doc, err := RenderPDF(records, testOptions())
	require.NoError(t, err)

	assert.Equal(t, FormatPDF, doc.Format)
	assert.Equal(t, "colleges.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
	assert.Empty(t, doc.Warnings)
	assert.Equal(t, 3, doc.Records)

	back, err := ExtractAppendix(doc.Bytes)
	require.NoError(t, err)
	if diff := cmp.Diff(records, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	pages, err := PageCount(doc.Bytes)
	require.NoError(t, err)
	assert.Equal(t, doc.Pages, pages)
	// the appendix always starts its own page
	assert.GreaterOrEqual(t, pages, 2)
}

func TestRenderPDFManyRecordsPaginates(t *testing.T) {
	records := manyRecords(40)
	doc, err := RenderPDF(records, testOptions())
	require.NoError(t, err)
	assert.Greater(t, doc.Pages, 5)

	back, err := ExtractAppendix(doc.Bytes)
	require.NoError(t, err)
	require.Len(t, back, len(records))
	for i := range records {
		assert.Equal(t, records[i].ID, back[i].ID)
		assert.Equal(t, records[i].Notes, back[i].Notes)
	}
}

func TestRenderPDFEmpty(t *testing.T) {
	doc, err := RenderPDF(nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Records)

	back, err := ExtractAppendix(doc.Bytes)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestRenderPDFMalformedFieldWarns(t *testing.T) {
	records := sampleRecords()
	records[1].Semesters = 0
	records[1].InstitutionName = ""

	doc, err := RenderPDF(records, testOptions())
	require.NoError(t, err)
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "record 2 (b2)")
	assert.Contains(t, doc.Warnings[0], "numberOfSemesters")

	rows, err := PDFRows(doc.Bytes)
	require.NoError(t, err)
	found := false
	for _, row := range rows {
		if row == "Duration: "+Placeholder || row == "Duration: \x97" {
			found = true
		}
	}
	assert.True(t, found, "placeholder row missing")
}

func TestRenderPDFDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	_, err := RenderPDF(records, testOptions())
	require.NoError(t, err)
	if diff := cmp.Diff(sampleRecords(), records); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestExtractAppendixRejectsPlainPDF(t *testing.T) {
	_, err := ExtractAppendix([]byte("not a pdf"))
	assert.Error(t, err)

	_, err = ExtractAppendix(nil)
	assert.Error(t, err)
}

func TestPDFRowsKeepHeadingOnItsOwnRow(t *testing.T) {
	doc, err := RenderPDF(sampleRecords()[:1], testOptions())
	require.NoError(t, err)

	rows, err := PDFRows(doc.Bytes)
	require.NoError(t, err)
	assert.Contains(t, rows, "University of Toronto")
	assert.Contains(t, rows, "Program: MEng Computer Engineering")
	assert.Contains(t, rows, AppendixHeading)
	assert.Contains(t, rows, "[")
}

func TestExtractAppendixWrappedRows(t *testing.T) {
	records := sampleRecords()
	records[0].Notes = strings.Repeat("x", 70) + strings.Repeat(" ", 40) + "end"
	records[1].Notes = "  leading and trailing  "
	records[1].InstitutionName = "Ecole (Paris) \\ Lyon"
	records[2].Notes = "tab\there (nested (parens)) \\server\\share " + strings.Repeat("東京ū ", 30)

	doc, err := RenderPDF(records, testOptions())
	require.NoError(t, err)

	back, err := ExtractAppendix(doc.Bytes)
	require.NoError(t, err)
	if diff := cmp.Diff(records, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractAppendixIgnoresHeadingInNotes(t *testing.T) {
	records := sampleRecords()[:1]
	records[0].Notes = AppendixHeading

	doc, err := RenderPDF(records, testOptions())
	require.NoError(t, err)

	back, err := ExtractAppendix(doc.Bytes)
	require.NoError(t, err)
	if diff := cmp.Diff(records, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPDFWrapsLongName(t *testing.T) {
	name := strings.TrimSpace(strings.Repeat("Institute of Advanced Engineering Studies ", 6))
	records := sampleRecords()[:1]
	records[0].InstitutionName = name

	doc, err := RenderPDF(records, testOptions())
	require.NoError(t, err)

	rows, err := PDFRows(doc.Bytes)
	require.NoError(t, err)
	start := slices.IndexFunc(rows, func(row string) bool { return strings.HasPrefix(row, "Institute of") })
	require.GreaterOrEqual(t, start, 0)
	end := slices.IndexFunc(rows, func(row string) bool { return strings.HasPrefix(row, "Program: ") })
	require.Greater(t, end, start+1, "name should span several rows")
	assert.Equal(t, name, strings.Join(rows[start:end], " "))
}

type docxText struct {
	Rows []struct {
		Header *struct{} `xml:"trPr>tblHeader"`
		Cells  []struct {
			Text string `xml:"p>r>t"`
		} `xml:"tc"`
	} `xml:"body>tbl>tr"`
	Grid []struct {
		Width int `xml:"w,attr"`
	} `xml:"body>tbl>tblGrid>gridCol"`
}

func readDOCX(t *testing.T, data []byte) (docxText, []string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	var body []byte
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		body, err = io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
	}
	require.NotEmpty(t, body)

	var doc docxText
	require.NoError(t, xml.Unmarshal(body, &doc))
	return doc, names
}

func TestRenderDOCXTable(t *testing.T) {
	records := sampleRecords()
	doc, err := RenderDOCX(records, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "colleges.docx", doc.Filename)

	table, names := readDOCX(t, doc.Bytes)
	assert.ElementsMatch(t, []string{
		"[Content_Types].xml", "_rels/.rels", "docProps/core.xml",
		"word/_rels/document.xml.rels", "word/styles.xml", "word/document.xml",
	}, names)

	require.Len(t, table.Rows, 1+len(records))
	require.NotNil(t, table.Rows[0].Header)

	var headers []string
	for _, c := range table.Rows[0].Cells {
		headers = append(headers, c.Text)
	}
	assert.Equal(t, []string{"Institution", "Location", "Tuition Fee", "Duration", "Application Deadline", "Required Exams"}, headers)

	first := table.Rows[1].Cells
	require.Len(t, first, 6)
	assert.Equal(t, "University of Toronto", first[0].Text)
	assert.Equal(t, "Toronto, Canada", first[1].Text)
	assert.Equal(t, "$15,000", first[2].Text)
	assert.Equal(t, "4 semesters", first[3].Text)
	assert.Equal(t, "June 1, 2024", first[4].Text)
	assert.Equal(t, "IELTS: 6.5; GRE: 310", first[5].Text)

	// caller order is kept
	assert.Equal(t, "Universität Zürich", table.Rows[2].Cells[0].Text)
	assert.Equal(t, "Tokyo Tech", table.Rows[3].Cells[0].Text)
	assert.Equal(t, "None", table.Rows[2].Cells[5].Text)

	total := 0
	for _, g := range table.Grid {
		total += g.Width
	}
	assert.InDelta(t, docxTextWidth, total, float64(len(TableColumns)))
}

func TestRenderDOCXEmptyAndMalformed(t *testing.T) {
	doc, err := RenderDOCX(nil, testOptions())
	require.NoError(t, err)
	table, _ := readDOCX(t, doc.Bytes)
	assert.Len(t, table.Rows, 1)

	records := sampleRecords()[:1]
	records[0].Exams = append(records[0].Exams, model.ExamScore{Exam: "SAT", Score: 1400})
	doc, err = RenderDOCX(records, testOptions())
	require.NoError(t, err)
	assert.Len(t, doc.Warnings, 1)
	table, _ = readDOCX(t, doc.Bytes)
	assert.Equal(t, Placeholder, table.Rows[1].Cells[5].Text)
}

func TestRenderDOCXDeterministic(t *testing.T) {
	a, err := RenderDOCX(sampleRecords(), testOptions())
	require.NoError(t, err)
	b, err := RenderDOCX(sampleRecords(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Bytes, b.Bytes)
}

func TestRenderJSON(t *testing.T) {
	doc, err := RenderJSON(sampleRecords())
	require.NoError(t, err)

	var back []model.Record
	require.NoError(t, json.Unmarshal(doc.Bytes, &back))
	if diff := cmp.Diff(sampleRecords(), back); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	doc, err = RenderJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(doc.Bytes))
}

func TestRenderBundle(t *testing.T) {
	doc, err := Render(context.Background(), FormatBundle, sampleRecords(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, "shortlist.zip", doc.Filename)

	zr, err := zip.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"colleges.pdf", "colleges.docx", "colleges.json"}, names)
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, FormatPDF, sampleRecords(), testOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), Format("xls"), nil, testOptions())
	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, Format("xls"), rerr.Format)
}
