package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"buyer-lead-portal/internal/auth"
	"buyer-lead-portal/internal/ratelimit"
)

// Scheduler runs periodic maintenance: purging expired magic-link tokens
// and dropping idle rate-limit windows.
type Scheduler struct {
	cron        *cron.Cron
	authManager *auth.Manager
	limiter     *ratelimit.RateLimiter
	spec        string
	isRunning   bool
}

// NewScheduler creates a new maintenance scheduler. spec is a cron
// expression, e.g. "@every 5m".
func NewScheduler(authManager *auth.Manager, limiter *ratelimit.RateLimiter, spec string) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		authManager: authManager,
		limiter:     limiter,
		spec:        spec,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: Maintenance run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started maintenance job (cron: %s)", s.spec)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow executes one maintenance pass immediately.
func (s *Scheduler) RunNow() error {
	if err := s.authManager.PurgeExpired(context.Background()); err != nil {
		return err
	}
	if s.limiter != nil {
		s.limiter.Cleanup()
	}
	return nil
}
