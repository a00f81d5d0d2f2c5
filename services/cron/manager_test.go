package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-maddineni/college-shortlister/database"
	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/digitalocean"
)

type fakeSpaces struct {
	files   []digitalocean.StoredFile
	deleted []string
}

func (f *fakeSpaces) UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.files = append(f.files, digitalocean.StoredFile{Key: key, LastModified: time.Now()})
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeSpaces) ListFiles(ctx context.Context, prefix string) ([]digitalocean.StoredFile, error) {
	return f.files, nil
}

func (f *fakeSpaces) DeleteFile(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestManager(t *testing.T, spaces *fakeSpaces) *CronManager {
	t.Helper()
	store := database.NewMemoryStore()
	records := services.NewRecordService(store)
	_, err := records.Create(context.Background(), model.Record{
		InstitutionName: "KTH",
		CourseName:      "MSc Machine Learning",
		TuitionFee:      16000,
		Semesters:       4,
		Deadline:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	cfg := services.ExportServiceConfig{}
	var snapshots SnapshotStore
	if spaces != nil {
		cfg.Uploader = spaces
		snapshots = spaces
	}
	m := NewCronManager(records, services.NewExportService(records, cfg), snapshots)
	m.now = func() time.Time { return time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC) }
	return m
}

func TestDeadlineDigestRecordsRun(t *testing.T) {
	m := newTestManager(t, nil)
	m.logJobStart(jobDeadlineDigest)
	m.DeadlineDigest()

	runs := m.LastRuns()
	require.Len(t, runs, 1)
	assert.Equal(t, "completed", runs[0].Status)
	assert.Equal(t, "1 upcoming, 0 overdue", runs[0].Message)
}

func TestWeeklySnapshotPrunesOldPDFs(t *testing.T) {
	spaces := &fakeSpaces{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultSnapshotsKept+2; i++ {
		spaces.files = append(spaces.files, digitalocean.StoredFile{
			Key:          fmt.Sprintf("%s2024%02d/colleges.pdf", services.SnapshotPrefix, i),
			LastModified: base.AddDate(0, 0, 7*i),
		})
	}

	m := newTestManager(t, spaces)
	m.logJobStart(jobWeeklySnapshot)
	m.WeeklySnapshot()

	// two old snapshots plus the one over the limit after publishing
	assert.Equal(t, []string{
		services.SnapshotPrefix + "202400/colleges.pdf",
		services.SnapshotPrefix + "202401/colleges.pdf",
		services.SnapshotPrefix + "202402/colleges.pdf",
	}, spaces.deleted)

	runs := m.LastRuns()
	require.Len(t, runs, 1)
	assert.Equal(t, jobWeeklySnapshot, runs[0].JobName)
	assert.Equal(t, "completed", runs[0].Status)
}

func TestRegisterJobsWithoutStorage(t *testing.T) {
	m := newTestManager(t, nil)
	require.NoError(t, m.registerJobs())
	assert.Len(t, m.cron.Entries(), 1)

	m = newTestManager(t, &fakeSpaces{})
	require.NoError(t, m.registerJobs())
	assert.Len(t, m.cron.Entries(), 2)
}
