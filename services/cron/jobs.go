package cron

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/digitalocean"
	"github.com/sri-maddineni/college-shortlister/services/export"
)

const (
	jobDeadlineDigest = "deadline_digest"
	jobWeeklySnapshot = "weekly_snapshot"

	// DigestWindowDays is how far ahead the daily digest looks
	DigestWindowDays = 14
	// DefaultSnapshotsKept is how many weekly snapshots survive pruning
	DefaultSnapshotsKept = 8
)

// SnapshotStore lists and removes published snapshots
type SnapshotStore interface {
	ListFiles(ctx context.Context, prefix string) ([]digitalocean.StoredFile, error)
	DeleteFile(ctx context.Context, key string) error
}

// DeadlineDigest logs the applications due within the next two weeks and those
// whose deadline has passed without an application
func (m *CronManager) DeadlineDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	digest, err := m.records.DeadlineDigest(ctx, m.now(), DigestWindowDays)
	if err != nil {
		m.logJobError(jobDeadlineDigest, fmt.Errorf("failed to build digest: %w", err))
		return
	}

	for _, r := range digest.Upcoming {
		days := int(r.Deadline.Sub(model.NormalizeDate(digest.GeneratedAt)).Hours() / 24)
		log.Printf("[CRON] Deadline in %d days: %s - %s (%s)", days, r.InstitutionName, r.CourseName, export.FormatDate(r.Deadline))
	}
	for _, r := range digest.Overdue {
		log.Printf("[CRON] Deadline passed: %s - %s (%s)", r.InstitutionName, r.CourseName, export.FormatDate(r.Deadline))
	}

	m.logJobComplete(jobDeadlineDigest, fmt.Sprintf("%d upcoming, %d overdue", len(digest.Upcoming), len(digest.Overdue)))
}

// WeeklySnapshot publishes the whole shortlist as a PDF and prunes old snapshots
func (m *CronManager) WeeklySnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	shared, err := m.exports.Snapshot(ctx)
	if err != nil {
		m.logJobError(jobWeeklySnapshot, fmt.Errorf("failed to publish snapshot: %w", err))
		return
	}

	pruned, err := m.pruneSnapshots(ctx)
	if err != nil {
		// the new snapshot is already published
		log.Printf("[CRON] Failed to prune old snapshots: %v", err)
	}

	m.logJobComplete(jobWeeklySnapshot, fmt.Sprintf("published %s (%d records), pruned %d", shared.URL, shared.Records, pruned))
}

// pruneSnapshots deletes all but the newest PDF snapshots
func (m *CronManager) pruneSnapshots(ctx context.Context) (int, error) {
	if m.snapshots == nil {
		return 0, nil
	}
	files, err := m.snapshots.ListFiles(ctx, services.SnapshotPrefix)
	if err != nil {
		return 0, err
	}

	var pdfs []digitalocean.StoredFile
	for _, f := range files {
		if strings.HasSuffix(f.Key, "."+string(export.FormatPDF)) {
			pdfs = append(pdfs, f)
		}
	}
	if len(pdfs) <= m.keep {
		return 0, nil
	}

	pruned := 0
	// files are listed oldest first
	for _, f := range pdfs[:len(pdfs)-m.keep] {
		if err := m.snapshots.DeleteFile(ctx, f.Key); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
