package cron

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sri-maddineni/college-shortlister/services"
)

// Job schedules, with seconds precision
const (
	DeadlineDigestSchedule = "0 0 8 * * *"
	WeeklySnapshotSchedule = "0 0 6 * * MON"
)

// JobRun records the outcome of the latest run of a job
type JobRun struct {
	JobName     string    `json:"jobName"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	records   *services.RecordService
	exports   *services.ExportService
	snapshots SnapshotStore
	keep      int
	now       func() time.Time

	mu   sync.Mutex
	runs map[string]JobRun
}

// NewCronManager creates a new cron manager. snapshots may be nil, in which case
// old weekly snapshots are never pruned.
func NewCronManager(records *services.RecordService, exports *services.ExportService, snapshots SnapshotStore) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		records:   records,
		exports:   exports,
		snapshots: snapshots,
		keep:      DefaultSnapshotsKept,
		now:       time.Now,
		runs:      make(map[string]JobRun),
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	// Register all jobs
	if err := m.registerJobs(); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Daily at 8 AM: Deadline digest
	_, err := m.cron.AddFunc(DeadlineDigestSchedule, func() {
		m.logJobStart(jobDeadlineDigest)
		m.DeadlineDigest()
	})
	if err != nil {
		return err
	}

	// 2. Mondays at 6 AM: Publish a PDF snapshot of the whole shortlist
	if m.exports.SharingEnabled() {
		_, err = m.cron.AddFunc(WeeklySnapshotSchedule, func() {
			m.logJobStart(jobWeeklySnapshot)
			m.WeeklySnapshot()
		})
		if err != nil {
			return err
		}
	} else {
		log.Println("[CRON] Object storage not configured, weekly snapshot disabled")
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// LastRuns returns the latest run of every job that has run at least once
func (m *CronManager) LastRuns() []JobRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]JobRun, 0, len(m.runs))
	for _, name := range []string{jobDeadlineDigest, jobWeeklySnapshot} {
		if run, ok := m.runs[name]; ok {
			runs = append(runs, run)
		}
	}
	return runs
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	now := m.now()
	log.Printf("[CRON] Starting job: %s at %s", jobName, now.Format(time.RFC3339))

	m.mu.Lock()
	m.runs[jobName] = JobRun{JobName: jobName, Status: "running", StartedAt: now}
	m.mu.Unlock()
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.mu.Lock()
	run := m.runs[jobName]
	run.JobName = jobName
	run.Status = "completed"
	run.CompletedAt = m.now()
	run.Message = message
	m.runs[jobName] = run
	m.mu.Unlock()
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.mu.Lock()
	run := m.runs[jobName]
	run.JobName = jobName
	run.Status = "failed"
	run.CompletedAt = m.now()
	run.Error = err.Error()
	m.runs[jobName] = run
	m.mu.Unlock()
}
