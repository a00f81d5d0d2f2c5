package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services/export/layout"
)

// Vertical advances in millimetres
const (
	titleAdvance     = 14.0
	generatedAdvance = 16.0
	nameAdvance      = 10.0
	lineAdvance      = 8.0
	separatorAdvance = 10.0
	headingAdvance   = 15.0
	codeAdvance      = 4.5

	ptToMM = 25.4 / 72
)

var (
	titleStyle   = layout.TextStyle{Family: "Helvetica", Style: "B", Size: 24}
	bodyStyle    = layout.TextStyle{Family: "Helvetica", Size: 12}
	nameStyle    = layout.TextStyle{Family: "Helvetica", Style: "B", Size: 16}
	headingStyle = layout.TextStyle{Family: "Helvetica", Style: "B", Size: 16}
	codeStyle    = layout.TextStyle{Family: "Courier", Size: 9}
)

// RenderPDF lays records out as a flowing, paginated document followed by a JSON
// appendix of the same sequence.
func RenderPDF(records []model.Record, opts Options) (doc *Document, err error) {
	opts = opts.withDefaults()
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &RenderError{Format: FormatPDF, Reason: fmt.Sprint(r)}
		}
	}()

	now := opts.Now()
	f := fpdf.New("P", "mm", opts.PageSize, "")
	f.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	f.SetAutoPageBreak(false, 0)
	f.SetTitle(opts.Title, true)
	f.SetCreator("college-shortlister", true)
	f.SetCreationDate(now)
	f.SetModificationDate(now)

	pageWidth, pageHeight := f.GetPageSize()
	r := &pdfRenderer{
		pdf:          f,
		margin:       opts.Margin,
		contentWidth: pageWidth - 2*opts.Margin,
	}

	problems, warnings := recordWarnings(records)
	blocks := []layout.Block{
		r.lineBlock(layout.KindTitle, titleStyle, titleAdvance, opts.Title),
		r.lineBlock(layout.KindText, bodyStyle, generatedAdvance, "Generated on: "+now.Format(humanTimestamp)),
	}
	for i, rec := range records {
		if i > 0 {
			blocks = append(blocks, layout.Block{Kind: layout.KindSeparator, Height: separatorAdvance, Optional: true})
		}
		blocks = append(blocks, r.recordBlocks(newRecordView(rec, problems[i]))...)
	}

	appendix, err := r.appendixBlocks(records)
	if err != nil {
		return nil, &RenderError{Format: FormatPDF, Reason: "encode appendix", Err: err}
	}
	blocks = append(blocks, appendix...)

	plan := layout.Plan(blocks, layout.Page{Height: pageHeight, Margin: opts.Margin})
	r.draw(plan)

	if f.Err() {
		return nil, &RenderError{Format: FormatPDF, Reason: "layout failed", Err: f.Error()}
	}
	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, &RenderError{Format: FormatPDF, Reason: "write output", Err: err}
	}

	doc = newDocument(FormatPDF, buf.Bytes(), len(records), warnings)
	doc.Pages = plan.Pages
	return doc, nil
}

type pdfRenderer struct {
	pdf          *fpdf.Fpdf
	margin       float64
	contentWidth float64
}

func (r *pdfRenderer) lineBlock(kind layout.BlockKind, style layout.TextStyle, advance float64, lines ...string) layout.Block {
	return layout.Block{
		Kind:       kind,
		Style:      style,
		Lines:      lines,
		LineHeight: advance,
		Height:     advance * float64(len(lines)),
	}
}

func (r *pdfRenderer) recordBlocks(v recordView) []layout.Block {
	blocks := []layout.Block{
		r.wrappedBlock(layout.KindTitle, nameStyle, nameAdvance, v.Name),
		r.wrappedBlock(layout.KindField, bodyStyle, lineAdvance, "Program: "+v.Program),
		r.wrappedBlock(layout.KindField, bodyStyle, lineAdvance, "Location: "+v.Location),
		r.lineBlock(layout.KindField, bodyStyle, lineAdvance, "Duration: "+v.Duration),
		r.lineBlock(layout.KindField, bodyStyle, lineAdvance, "Tuition Fee: "+v.Fee),
		r.lineBlock(layout.KindField, bodyStyle, lineAdvance, "Application Deadline: "+v.Deadline),
		r.lineBlock(layout.KindField, bodyStyle, lineAdvance, "Admission Status: "+v.Status),
	}

	exams := []string{"Required Exams: None"}
	if len(v.Exams) > 0 {
		exams = append([]string{"Required Exams:"}, v.Exams...)
	}
	blocks = append(blocks, r.lineBlock(layout.KindList, bodyStyle, lineAdvance, exams...))

	if v.Notes == "" {
		return blocks
	}
	lines := r.wrap(bodyStyle, v.Notes)

	// the label travels with the first line; later lines may start a new page
	blocks = append(blocks, r.lineBlock(layout.KindNotes, bodyStyle, lineAdvance, "Notes:", lines[0]))
	for _, line := range lines[1:] {
		blocks = append(blocks, r.lineBlock(layout.KindNotes, bodyStyle, lineAdvance, line))
	}
	return blocks
}

// wrappedBlock keeps a field that is wider than the page in one block of
// several lines.
func (r *pdfRenderer) wrappedBlock(kind layout.BlockKind, style layout.TextStyle, advance float64, text string) layout.Block {
	return r.lineBlock(kind, style, advance, r.wrap(style, text)...)
}

func (r *pdfRenderer) wrap(style layout.TextStyle, text string) []string {
	r.setFont(style)
	measure := func(s string) float64 { return r.pdf.GetStringWidth(pdfText(s)) }
	return layout.WrapWords(text, r.contentWidth, measure)
}

func (r *pdfRenderer) appendixBlocks(records []model.Record) ([]layout.Block, error) {
	data, err := EncodeAppendix(records)
	if err != nil {
		return nil, err
	}

	r.setFont(codeStyle)
	columns := int(r.contentWidth / r.pdf.GetStringWidth("0"))

	heading := r.lineBlock(layout.KindHeading, headingStyle, headingAdvance, AppendixHeading)
	heading.BreakBefore = true
	blocks := []layout.Block{heading}
	for _, line := range strings.Split(string(data), "\n") {
		for _, chunk := range layout.HardWrap(line, columns) {
			blocks = append(blocks, r.lineBlock(layout.KindCode, codeStyle, codeAdvance, chunk))
		}
	}
	return blocks, nil
}

func (r *pdfRenderer) setFont(s layout.TextStyle) {
	r.pdf.SetFont(s.Family, s.Style, s.Size)
}

func (r *pdfRenderer) draw(plan layout.Layout) {
	page := 0
	if len(plan.Placed) == 0 {
		r.pdf.AddPage()
		return
	}
	for _, b := range plan.Placed {
		for page < b.Page {
			r.pdf.AddPage()
			page++
		}

		if b.Kind == layout.KindSeparator {
			y := b.Y + 2
			r.pdf.SetDrawColor(200, 200, 200)
			r.pdf.Line(r.margin, y, r.margin+r.contentWidth, y)
			continue
		}

		r.setFont(b.Style)
		ascent := b.Style.Size * ptToMM * 0.8
		for i, line := range b.Lines {
			if line == "" {
				continue
			}
			r.pdf.Text(r.margin, b.Y+float64(i)*b.LineHeight+ascent, pdfText(line))
		}
	}
}
