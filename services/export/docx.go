package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/sri-maddineni/college-shortlister/model"
)

// TableColumn is one column of the Word table
type TableColumn struct {
	Header  string
	Percent int
	value   func(v recordView) string
}

// TableColumns are the columns of the Word export, left to right. Widths add up
// to the full text width.
var TableColumns = []TableColumn{
	{Header: "Institution", Percent: 24, value: func(v recordView) string { return v.Name }},
	{Header: "Location", Percent: 18, value: func(v recordView) string { return v.Location }},
	{Header: "Tuition Fee", Percent: 13, value: func(v recordView) string { return v.Fee }},
	{Header: "Duration", Percent: 11, value: func(v recordView) string { return v.Duration }},
	{Header: "Application Deadline", Percent: 14, value: func(v recordView) string { return v.Deadline }},
	{Header: "Required Exams", Percent: 20, value: func(v recordView) string { return v.ExamsLine }},
}

const (
	// A4 with 20mm margins, in twentieths of a point
	docxPageWidth   = 11906
	docxPageHeight  = 16838
	docxMargin      = 1134
	docxTextWidth   = docxPageWidth - 2*docxMargin
	docxFontHalfPts = 20
)

// RenderDOCX renders the records as a single Word table, one row per record in
// the given order, under a header row that repeats on every page.
func RenderDOCX(records []model.Record, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	now := opts.Now().UTC()
	problems, warnings := recordWarnings(records)

	var body strings.Builder
	writeParagraph(&body, opts.Title, "Title")
	writeParagraph(&body, "Generated on: "+now.Format(humanTimestamp), "")
	writeTable(&body, records, problems)

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", fmt.Sprintf(coreXML, xmlEscape(opts.Title), now.Format(time.RFC3339), now.Format(time.RFC3339))},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", fmt.Sprintf(stylesXML, docxFontHalfPts)},
		{"word/document.xml", fmt.Sprintf(documentXML, body.String(), docxPageWidth, docxPageHeight, docxMargin, docxMargin, docxMargin, docxMargin)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, &RenderError{Format: FormatDOCX, Reason: "create " + p.name, Err: err}
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			return nil, &RenderError{Format: FormatDOCX, Reason: "write " + p.name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &RenderError{Format: FormatDOCX, Reason: "close archive", Err: err}
	}

	return newDocument(FormatDOCX, buf.Bytes(), len(records), warnings), nil
}

func writeTable(b *strings.Builder, records []model.Record, problems [][]model.FieldProblem) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="5000" w:type="pct"/><w:tblLayout w:type="fixed"/></w:tblPr><w:tblGrid>`)
	for _, c := range TableColumns {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, docxTextWidth*c.Percent/100)
	}
	b.WriteString(`</w:tblGrid>`)

	b.WriteString(`<w:tr><w:trPr><w:tblHeader/><w:cantSplit/></w:trPr>`)
	for _, c := range TableColumns {
		writeCell(b, c, c.Header, true)
	}
	b.WriteString(`</w:tr>`)

	for i, r := range records {
		v := newRecordView(r, problems[i])
		b.WriteString(`<w:tr><w:trPr><w:cantSplit/></w:trPr>`)
		for _, c := range TableColumns {
			writeCell(b, c, c.value(v), false)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
	// a document may not end with a table
	b.WriteString(`<w:p/>`)
}

func writeCell(b *strings.Builder, c TableColumn, text string, bold bool) {
	// pct widths are expressed in fiftieths of a percent
	fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="pct"/></w:tcPr><w:p>`, c.Percent*50)
	b.WriteString(`<w:r>`)
	if bold {
		b.WriteString(`<w:rPr><w:b/></w:rPr>`)
	}
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t></w:r></w:p></w:tc>`, xmlEscape(text))
}

func writeParagraph(b *strings.Builder, text, style string) {
	b.WriteString(`<w:p>`)
	if style != "" {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	fmt.Fprintf(b, `<w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, xmlEscape(text))
}

func xmlEscape(s string) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const rootRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const coreXML = xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
	`<dc:title>%s</dc:title><dc:creator>college-shortlister</dc:creator>` +
	`<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>` +
	`<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>` +
	`</cp:coreProperties>`

const stylesXML = xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="%d"/></w:rPr></w:rPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="80"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:after="240"/></w:pPr><w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style>` +
	`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders>` +
	`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
	`</w:tblBorders><w:tblCellMar><w:left w:w="80" w:type="dxa"/><w:right w:w="80" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>` +
	`</w:styles>`

const documentXML = xml.Header + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s` +
	`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>` +
	`</w:body></w:document>`
