package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sri-maddineni/college-shortlister/model"
)

// fixed width so that text timestamps sort chronologically
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = `id, institution_name, course_name, city, country, tuition_fee, semesters,
	deadline, status, exams, notes, created_at, updated_at`

func (s *SQLStore) ListRecords(ctx context.Context) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY created_at, id;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		record, err := scanIntoRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (s *SQLStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	query := s.rebind(`SELECT ` + recordColumns + ` FROM records WHERE id = ?;`)

	record, err := scanIntoRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return record, err
}

func (s *SQLStore) CreateRecord(ctx context.Context, record *model.Record) error {
	record.CreatedAt = s.clock.next()
	record.UpdatedAt = record.CreatedAt

	exams, err := encodeExams(record.Exams)
	if err != nil {
		return err
	}

	query := s.rebind(`INSERT INTO records(` + recordColumns + `)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.InstitutionName,
		record.CourseName,
		record.City,
		record.Country,
		record.TuitionFee,
		record.Semesters,
		formatDeadline(record.Deadline),
		string(record.Status),
		exams,
		record.Notes,
		record.CreatedAt.UTC().Format(timestampLayout),
		record.UpdatedAt.UTC().Format(timestampLayout),
	)
	return err
}

func (s *SQLStore) UpdateRecord(ctx context.Context, record *model.Record) error {
	record.UpdatedAt = time.Now().UTC()

	exams, err := encodeExams(record.Exams)
	if err != nil {
		return err
	}

	query := s.rebind(`UPDATE records SET institution_name = ?, course_name = ?, city = ?, country = ?,
		tuition_fee = ?, semesters = ?, deadline = ?, status = ?, exams = ?, notes = ?, updated_at = ?
		WHERE id = ?;`)
	res, err := s.db.ExecContext(ctx, query,
		record.InstitutionName,
		record.CourseName,
		record.City,
		record.Country,
		record.TuitionFee,
		record.Semesters,
		formatDeadline(record.Deadline),
		string(record.Status),
		exams,
		record.Notes,
		record.UpdatedAt.Format(timestampLayout),
		record.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *SQLStore) DeleteRecord(ctx context.Context, id string) error {
	query := s.rebind("DELETE FROM records WHERE id = ?;")

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIntoRecord(row rowScanner) (*model.Record, error) {
	record := new(model.Record)
	var (
		city, country, deadline, exams, notes sql.NullString
		status, createdAt, updatedAt          string
	)
	err := row.Scan(
		&record.ID,
		&record.InstitutionName,
		&record.CourseName,
		&city,
		&country,
		&record.TuitionFee,
		&record.Semesters,
		&deadline,
		&status,
		&exams,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.City = city.String
	record.Country = country.String
	record.Notes = notes.String
	record.Status = model.AdmissionStatus(status)
	if deadline.Valid && deadline.String != "" {
		if record.Deadline, err = model.ParseDate(deadline.String); err != nil {
			return nil, fmt.Errorf("record %s: %w", record.ID, err)
		}
	}
	if exams.Valid && exams.String != "" {
		if err := record.Exams.Scan(exams.String); err != nil {
			return nil, fmt.Errorf("record %s: decode exams: %w", record.ID, err)
		}
	}
	record.CreatedAt = parseTimestamp(createdAt)
	record.UpdatedAt = parseTimestamp(updatedAt)
	return record, nil
}

func encodeExams(exams model.ExamScores) (string, error) {
	if exams == nil {
		return "", nil
	}
	v, err := exams.Value()
	if err != nil {
		return "", fmt.Errorf("encode exams: %w", err)
	}
	switch b := v.(type) {
	case []byte:
		return string(b), nil
	case string:
		return b, nil
	}
	return "", fmt.Errorf("encode exams: unexpected value %T", v)
}

func formatDeadline(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return model.NormalizeDate(t).Format(model.DateLayout)
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
