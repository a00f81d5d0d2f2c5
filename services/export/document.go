// Package export renders an ordered record sequence into downloadable documents:
// a paginated PDF with a machine-readable appendix, a single-table Word document,
// pretty JSON, and a zip bundle of all three.
//
// Renderers never reorder or mutate their input. Callers hand them a snapshot
// (model.Snapshot) when the source collection may change during rendering.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sri-maddineni/college-shortlister/model"
)

// Format identifies an output document type
type Format string

const (
	FormatPDF    Format = "pdf"
	FormatDOCX   Format = "docx"
	FormatJSON   Format = "json"
	FormatBundle Format = "bundle"
)

// Formats lists the formats Render understands
var Formats = []Format{FormatPDF, FormatDOCX, FormatJSON, FormatBundle}

// ParseFormat accepts a format name or a file extension
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch key {
	case "word":
		key = string(FormatDOCX)
	case "zip":
		key = string(FormatBundle)
	}
	for _, f := range Formats {
		if key == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType is the MIME type of the rendered bytes
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatJSON:
		return "application/json"
	case FormatBundle:
		return "application/zip"
	}
	return "application/octet-stream"
}

// Filename is the default download name
func (f Format) Filename() string {
	switch f {
	case FormatBundle:
		return "shortlist.zip"
	case FormatJSON:
		return "colleges.json"
	}
	return "colleges." + string(f)
}

// Document is a successfully rendered file. Warnings describe malformed record
// fields that were rendered with a placeholder.
type Document struct {
	Format      Format   `json:"format"`
	Filename    string   `json:"filename"`
	ContentType string   `json:"contentType"`
	Bytes       []byte   `json:"-"`
	Pages       int      `json:"pages,omitempty"`
	Records     int      `json:"records"`
	Warnings    []string `json:"warnings,omitempty"`
}

func newDocument(f Format, data []byte, records int, warnings []string) *Document {
	return &Document{
		Format:      f,
		Filename:    f.Filename(),
		ContentType: f.ContentType(),
		Bytes:       data,
		Records:     records,
		Warnings:    warnings,
	}
}

// RenderError is returned when a renderer cannot produce a complete document.
// No partial output accompanies it.
type RenderError struct {
	Format Format
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("render %s: %s", e.Format, e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Options configures every renderer
type Options struct {
	Title    string
	PageSize string
	Margin   float64
	Now      func() time.Time
}

const (
	DefaultTitle    = "College Shortlist"
	DefaultPageSize = "A4"
	DefaultMargin   = 20.0
)

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.PageSize == "" {
		o.PageSize = DefaultPageSize
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Render dispatches to the renderer for format f
func Render(ctx context.Context, f Format, records []model.Record, opts Options) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch f {
	case FormatPDF:
		return RenderPDF(records, opts)
	case FormatDOCX:
		return RenderDOCX(records, opts)
	case FormatJSON:
		return RenderJSON(records)
	case FormatBundle:
		return RenderBundle(ctx, records, opts)
	}
	return nil, &RenderError{Format: f, Reason: "unsupported format"}
}

// recordWarnings lists the validation problems of each record, prefixed with its
// position so that users can find it in the document.
func recordWarnings(records []model.Record) ([][]model.FieldProblem, []string) {
	problems := make([][]model.FieldProblem, len(records))
	var warnings []string
	for i, r := range records {
		problems[i] = r.Validate()
		if len(problems[i]) == 0 {
			continue
		}
		msgs := make([]string, len(problems[i]))
		for j, p := range problems[i] {
			msgs[j] = p.String()
		}
		name := r.InstitutionName
		if strings.TrimSpace(name) == "" {
			name = r.ID
		}
		warnings = append(warnings, fmt.Sprintf("record %d (%s): %s", i+1, name, strings.Join(msgs, "; ")))
	}
	return problems, warnings
}
