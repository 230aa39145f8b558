package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/notify"
	"github.com/prattikkk/Incubyte/internal/session"
)

// Scheduler runs the background sweeps of the storefront, currently a single
// interval job that notices the active session expiring mid-run and demotes
// the user back to anonymous with a heads-up notification.
type Scheduler struct {
	cron     *cron.Cron
	store    *session.Store
	notifier *notify.Center
	log      zerolog.Logger
}

func NewScheduler(store *session.Store, notifier *notify.Center, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.store == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("@every 15s", s.sweepExpiredSession); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running sweep up to a short timeout.
func (s *Scheduler) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) sweepExpiredSession() {
	if !s.store.Expired() {
		return
	}

	if err := s.store.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clear expired session failed")
		return
	}

	s.log.Info().Msg("session expired, dropped to anonymous")
	if s.notifier != nil {
		s.notifier.Push("Your session expired, please log in again", notify.KindInfo, "Session")
	}
}
