package export

import (
	"encoding/json"

	"github.com/sri-maddineni/college-shortlister/model"
)

// RenderJSON renders the records as indented JSON in the order given. The
// output is the same shape the import endpoint accepts.
func RenderJSON(records []model.Record) (*Document, error) {
	if records == nil {
		records = []model.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, &RenderError{Format: FormatJSON, Reason: "encode records", Err: err}
	}
	_, warnings := recordWarnings(records)
	return newDocument(FormatJSON, append(data, '\n'), len(records), warnings), nil
}
