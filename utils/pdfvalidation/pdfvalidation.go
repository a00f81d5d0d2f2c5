package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/sri-maddineni/college-shortlister/services/export"
)

// PDFLimits defines the validation limits for PDF uploads
type PDFLimits struct {
	MaxFileSizeMB    int    // Maximum file size in MB
	MaxPages         int    // Maximum number of pages
	DocumentTypeName string // For error messages
}

// ExportLimits bounds uploaded shortlist exports
var ExportLimits = PDFLimits{
	MaxFileSizeMB:    20,
	MaxPages:         500,
	DocumentTypeName: "shortlist export",
}

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

// ReadPDFFile reads an uploaded PDF and validates it against the given limits.
// The content is only returned when the file is valid.
func ReadPDFFile(file *multipart.FileHeader, limits PDFLimits) ([]byte, *ValidationResult, error) {
	result := &ValidationResult{
		FileSize: file.Size,
	}

	// 1. Validate file size before reading anything
	if file.Size > maxBytes(limits) {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return nil, result, nil
	}

	// 2. Validate file extension
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		result.Error = "Only PDF files are supported"
		return nil, result, nil
	}

	// 3. Open file and read content
	f, err := file.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes(limits)+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	result, err = ValidatePDFBytes(content, limits)
	if err != nil || !result.Valid {
		return nil, result, err
	}
	return content, result, nil
}

// ValidatePDFBytes validates PDF content bytes against the given limits
func ValidatePDFBytes(content []byte, limits PDFLimits) (*ValidationResult, error) {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	// 1. Validate file size
	if result.FileSize > maxBytes(limits) {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result, nil
	}

	// 2. Validate PDF header
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		result.Error = "Invalid PDF file: missing PDF header"
		return result, nil
	}

	// 3. Get page count
	pageCount, err := export.PageCount(content)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
		return result, nil
	}

	result.PageCount = pageCount

	// 4. Validate page count
	if pageCount > limits.MaxPages {
		result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for %s",
			pageCount, limits.MaxPages, limits.DocumentTypeName)
		return result, nil
	}

	if pageCount == 0 {
		result.Error = "PDF has no pages"
		return result, nil
	}

	result.Valid = true
	return result, nil
}

func maxBytes(limits PDFLimits) int64 {
	return int64(limits.MaxFileSizeMB) * 1024 * 1024
}
