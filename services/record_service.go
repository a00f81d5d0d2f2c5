package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sri-maddineni/college-shortlister/database"
	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services/query"
)

// InvalidRecordError carries every problem found in a submitted record
type InvalidRecordError struct {
	Problems []model.FieldProblem
}

func (e *InvalidRecordError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid record: " + strings.Join(msgs, "; ")
}

// RecordService handles the shortlist records
type RecordService struct {
	store database.Storage
}

// NewRecordService creates a new record service
func NewRecordService(store database.Storage) *RecordService {
	return &RecordService{store: store}
}

// List returns the records matching the criteria in the requested order
func (s *RecordService) List(ctx context.Context, criteria query.Criteria) ([]model.Record, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return query.FilterAndSort(records, criteria), nil
}

// Get returns one record
func (s *RecordService) Get(ctx context.Context, id string) (*model.Record, error) {
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	return record, nil
}

// Create stores a new record under a fresh identifier
func (s *RecordService) Create(ctx context.Context, input model.Record) (*model.Record, error) {
	record := prepare(input)
	record.ID = uuid.NewString()

	if problems := record.Validate(); len(problems) > 0 {
		return nil, &InvalidRecordError{Problems: problems}
	}
	if err := s.store.CreateRecord(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	log.Printf("Created record %s (%s)", record.ID, record.InstitutionName)
	return &record, nil
}

// Update replaces every field of the record with the given id
func (s *RecordService) Update(ctx context.Context, id string, input model.Record) (*model.Record, error) {
	existing, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}

	record := prepare(input)
	record.ID = id
	record.CreatedAt = existing.CreatedAt

	if problems := record.Validate(); len(problems) > 0 {
		return nil, &InvalidRecordError{Problems: problems}
	}
	if err := s.store.UpdateRecord(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to update record %s: %w", id, err)
	}
	return &record, nil
}

// Delete removes a record
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	log.Printf("Deleted record %s", id)
	return nil
}

// ImportProblem describes one record of an import batch that was not stored
type ImportProblem struct {
	Index    int                  `json:"index"`
	Name     string               `json:"name,omitempty"`
	Problems []model.FieldProblem `json:"problems,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ImportResult summarises an import batch
type ImportResult struct {
	Imported []model.Record  `json:"imported"`
	Skipped  []ImportProblem `json:"skipped,omitempty"`
}

// Import appends a batch of records to the shortlist. Records without an id, or
// whose id is already taken, get a fresh one. Invalid records are reported and
// skipped; the rest of the batch is still stored.
func (s *RecordService) Import(ctx context.Context, records []model.Record) (*ImportResult, error) {
	existing, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	taken := make(map[string]bool, len(existing)+len(records))
	for _, r := range existing {
		taken[r.ID] = true
	}

	result := &ImportResult{Imported: []model.Record{}}
	for i, input := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record := prepare(input)
		if record.ID == "" || taken[record.ID] {
			record.ID = uuid.NewString()
		}
		if problems := record.Validate(); len(problems) > 0 {
			result.Skipped = append(result.Skipped, ImportProblem{Index: i, Name: record.InstitutionName, Problems: problems})
			continue
		}
		if err := s.store.CreateRecord(ctx, &record); err != nil {
			result.Skipped = append(result.Skipped, ImportProblem{Index: i, Name: record.InstitutionName, Error: err.Error()})
			continue
		}
		taken[record.ID] = true
		result.Imported = append(result.Imported, record)
	}

	log.Printf("Imported %d records, skipped %d", len(result.Imported), len(result.Skipped))
	return result, nil
}

// Courses lists the distinct course names for the course filter
func (s *RecordService) Courses(ctx context.Context) ([]string, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return query.DistinctCourses(records), nil
}

// Digest groups the records that still need an application by deadline
type Digest struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Within      int            `json:"withinDays"`
	Upcoming    []model.Record `json:"upcoming"`
	Overdue     []model.Record `json:"overdue"`
}

// DeadlineDigest lists not-yet-applied records whose deadline falls within the
// given number of days from today, and those whose deadline has already passed.
// Both lists are ordered by deadline.
func (s *RecordService) DeadlineDigest(ctx context.Context, now time.Time, within int) (*Digest, error) {
	if within < 0 {
		return nil, errors.New("within must not be negative")
	}
	records, err := s.List(ctx, query.Criteria{Status: model.StatusNotApplied, Sort: query.SortDeadlineAsc})
	if err != nil {
		return nil, err
	}

	today := model.NormalizeDate(now)
	limit := today.AddDate(0, 0, within)
	digest := &Digest{GeneratedAt: now, Within: within, Upcoming: []model.Record{}, Overdue: []model.Record{}}
	for _, r := range records {
		switch {
		case r.Deadline.IsZero():
		case r.DeadlinePassed(now):
			digest.Overdue = append(digest.Overdue, r)
		case !r.Deadline.After(limit):
			digest.Upcoming = append(digest.Upcoming, r)
		}
	}
	return digest, nil
}

// prepare normalises user input before validation
func prepare(input model.Record) model.Record {
	r := input.Clone()
	r.InstitutionName = strings.TrimSpace(r.InstitutionName)
	r.CourseName = strings.TrimSpace(r.CourseName)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.Notes = strings.TrimSpace(r.Notes)
	r.ID = strings.TrimSpace(r.ID)
	r.Deadline = model.NormalizeDate(r.Deadline)
	if r.Status == "" {
		r.Status = model.StatusNotApplied
	}
	return r
}
