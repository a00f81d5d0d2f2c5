package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sri-maddineni/college-shortlister/model"
)

// SampleRecords returns the demo shortlist used to seed an empty database
func SampleRecords() []model.Record {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return []model.Record{
		{
			InstitutionName: "Technical University of Munich",
			CourseName:      "MSc Informatics",
			City:            "Munich",
			Country:         "Germany",
			TuitionFee:      6000,
			Semesters:       4,
			Deadline:        date(2025, time.May, 31),
			Status:          model.StatusNotApplied,
			Exams:           model.ExamScores{{Exam: model.ExamIELTS, Score: 6.5}, {Exam: model.ExamGRE, Score: 315}},
			Notes:           "Aptitude assessment interview in June. Semester fee covers the public transport ticket.",
		},
		{
			InstitutionName: "University of Toronto",
			CourseName:      "MEng Electrical and Computer Engineering",
			City:            "Toronto",
			Country:         "Canada",
			TuitionFee:      38000,
			Semesters:       3,
			Deadline:        date(2025, time.January, 15),
			Status:          model.StatusApplied,
			Exams:           model.ExamScores{{Exam: model.ExamTOEFL, Score: 93}},
		},
		{
			InstitutionName: "University of Melbourne",
			CourseName:      "Master of Data Science",
			City:            "Melbourne",
			Country:         "Australia",
			TuitionFee:      46000,
			Semesters:       4,
			Deadline:        date(2025, time.October, 31),
			Status:          model.StatusAdmitted,
			Exams:           model.ExamScores{{Exam: model.ExamIELTS, Score: 6.5}, {Exam: model.ExamDuolingo, Score: 110}},
		},
		{
			InstitutionName: "Arizona State University",
			CourseName:      "MS Computer Science",
			City:            "Tempe",
			Country:         "United States",
			TuitionFee:      18000,
			Semesters:       4,
			Deadline:        date(2025, time.March, 1),
			Status:          model.StatusDenied,
			Exams:           model.ExamScores{{Exam: model.ExamTOEFL, Score: 90}, {Exam: model.ExamGRE, Score: 305}},
			Notes:           "Reapply for the spring intake.",
		},
		{
			InstitutionName: "Aalto University",
			CourseName:      "MSc Computer, Communication and Information Sciences",
			City:            "Espoo",
			Country:         "Finland",
			TuitionFee:      15000,
			Semesters:       4,
			Deadline:        date(2025, time.January, 2),
			Status:          model.StatusNotApplied,
			Exams:           model.ExamScores{{Exam: model.ExamIELTS, Score: 6.5}},
		},
	}
}

// Seed inserts the sample records when the store is empty
func Seed(ctx context.Context, store Storage) (int, error) {
	log.Println("🌱 Starting database seeding...")

	existing, err := store.ListRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list records: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("⏭️  %d records already exist, skipping...", len(existing))
		return 0, nil
	}

	created := 0
	for _, r := range SampleRecords() {
		r.ID = uuid.NewString()
		if err := store.CreateRecord(ctx, &r); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", r.InstitutionName, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d records", created)
	return created, nil
}
