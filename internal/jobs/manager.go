package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 10 * time.Minute

// Reminder sends payment reminders for registrations left unpaid too long.
type Reminder interface {
	SendDueReminders(ctx context.Context, olderThan time.Duration) (int, error)
}

type Config struct {
	// ReminderSchedule is a standard five-field cron spec; empty disables the job.
	ReminderSchedule string
	ReminderAfter    time.Duration
}

// Manager runs the scheduled jobs.
type Manager struct {
	cron     *cron.Cron
	cfg      Config
	reminder Reminder
	log      zerolog.Logger

	mu      sync.Mutex
	running map[string]bool
}

func NewManager(cfg Config, reminder Reminder, log zerolog.Logger) *Manager {
	return &Manager{
		cron:     cron.New(),
		cfg:      cfg,
		reminder: reminder,
		log:      log.With().Str("component", "jobs").Logger(),
		running:  map[string]bool{},
	}
}

// Start registers the configured jobs and starts the scheduler.
func (m *Manager) Start() error {
	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()
	m.log.Info().Int("jobs", len(m.cron.Entries())).Msg("scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info().Msg("scheduler stopped")
}

func (m *Manager) registerJobs() error {
	if m.cfg.ReminderSchedule == "" {
		return nil
	}
	if _, err := m.cron.AddFunc(m.cfg.ReminderSchedule, func() {
		m.run("payment_reminders", m.SendPaymentReminders)
	}); err != nil {
		return fmt.Errorf("schedule payment reminders %q: %w", m.cfg.ReminderSchedule, err)
	}
	return nil
}

// run skips a job while a previous run of it is still going.
func (m *Manager) run(name string, job func(ctx context.Context) error) {
	m.mu.Lock()
	if m.running[name] {
		m.mu.Unlock()
		m.log.Warn().Str("job", name).Msg("previous run still going, skipped")
		return
	}
	m.running[name] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.running, name)
		m.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	m.log.Info().Str("job", name).Msg("job started")
	if err := job(ctx); err != nil {
		m.log.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("job failed")
		return
	}
	m.log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("job completed")
}

func (m *Manager) SendPaymentReminders(ctx context.Context) error {
	sent, err := m.reminder.SendDueReminders(ctx, m.cfg.ReminderAfter)
	if err != nil {
		return err
	}
	m.log.Info().Int("sent", sent).Msg("payment reminders sent")
	return nil
}
