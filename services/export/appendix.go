package export

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"

	"github.com/sri-maddineni/college-shortlister/model"
)

// AppendixHeading introduces the machine-readable dump at the end of a PDF
const AppendixHeading = "JSON Representation"

// ErrNoAppendix is returned when a PDF carries no record dump
var ErrNoAppendix = errors.New("pdf has no JSON appendix")

// EncodeAppendix serializes records as indented JSON restricted to ASCII, so the
// dump survives the single-byte encoding of the PDF core fonts unchanged.
func EncodeAppendix(records []model.Record) ([]byte, error) {
	if records == nil {
		records = []model.Record{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return asciiJSON(raw), nil
}

// DecodeAppendix is the inverse of EncodeAppendix
func DecodeAppendix(data []byte) ([]model.Record, error) {
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode appendix: %w", err)
	}
	return records, nil
}

// asciiJSON escapes every non-ASCII rune as \uXXXX. Such runes only occur inside
// JSON strings, where the escape is equivalent.
func asciiJSON(raw []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(raw))
	for _, r := range string(raw) {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.Bytes()
}

// sanitizePDF truncates trailing garbage after the last %%EOF marker, which
// browsers and mail gateways sometimes append to downloads.
func sanitizePDF(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}
	eof := []byte("%%EOF")
	last := bytes.LastIndex(content, eof)
	if last == -1 {
		return content
	}
	end := last + len(eof)
	for end < len(content) && (content[end] == '\n' || content[end] == '\r') {
		end++
	}
	return content[:end]
}

// PDFRows returns the text of every row of every page, top to bottom. Glyphs
// are grouped by baseline and kept in drawing order, spaces included.
func PDFRows(content []byte) ([]string, error) {
	if len(content) == 0 {
		return nil, errors.New("empty PDF content")
	}
	content = sanitizePDF(content)

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	var rows []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageRows, err := pageRows(page)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		rows = append(rows, pageRows...)
	}
	return rows, nil
}

func pageRows(page pdf.Page) (rows []string, err error) {
	// the content interpreter panics on malformed operators
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed page content: %v", r)
		}
	}()

	texts := page.Content().Text
	slices.SortStableFunc(texts, func(a, b pdf.Text) int {
		if c := cmp.Compare(baseline(b.Y), baseline(a.Y)); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	var line strings.Builder
	for i, t := range texts {
		if i > 0 && baseline(t.Y) != baseline(texts[i-1].Y) {
			rows = append(rows, line.String())
			line.Reset()
		}
		if t.S != "\n" {
			line.WriteString(t.S)
		}
	}
	if len(texts) > 0 {
		rows = append(rows, line.String())
	}
	return rows, nil
}

// baseline buckets a y coordinate to a hundredth of a point
func baseline(y float64) int64 {
	return int64(math.Round(y * 100))
}

// ExtractAppendix recovers the exact record sequence rendered into a PDF by
// reading back its JSON appendix.
func ExtractAppendix(content []byte) ([]model.Record, error) {
	rows, err := PDFRows(content)
	if err != nil {
		return nil, err
	}

	// notes may print a line equal to the heading, so every match is tried and
	// the first one followed by a decodable dump wins
	var lastErr error
	for i, row := range rows {
		if strings.TrimSpace(row) != AppendixHeading {
			continue
		}
		// wrapped rows are plain slices of the JSON text
		records, err := DecodeAppendix([]byte(strings.Join(rows[i+1:], "")))
		if err == nil {
			return records, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoAppendix
}

// PageCount reports the number of pages of a PDF
func PageCount(content []byte) (int, error) {
	content = sanitizePDF(content)
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return reader.NumPage(), nil
}
