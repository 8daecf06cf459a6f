package usecase

import (
	"context"
	"sync"
	"time"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// CheckerFunc adapts a ping function into a domain.HealthChecker.
type CheckerFunc struct {
	name  string
	check func(ctx context.Context) error
}

func NewChecker(name string, check func(ctx context.Context) error) CheckerFunc {
	return CheckerFunc{name: name, check: check}
}

func (c CheckerFunc) Name() string                    { return c.name }
func (c CheckerFunc) Check(ctx context.Context) error { return c.check(ctx) }

type healthUsecase struct {
	checkers []domain.HealthChecker
	timeout  time.Duration
}

func NewHealthUsecase(checkers ...domain.HealthChecker) domain.HealthUsecase {
	return &healthUsecase{
		checkers: checkers,
		timeout:  2 * time.Second,
	}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{
		Status:     "ok",
		Components: make(map[string]string, len(u.checkers)),
	}

	// Checks never fail the group; each one reports its own status.
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, c := range u.checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, u.timeout)
			defer cancel()

			status := "ok"
			if err := c.Check(checkCtx); err != nil {
				logger.Log.Warn("Health check failed", "component", c.Name(), "error", err)
				status = "unavailable"
			}

			mu.Lock()
			report.Components[c.Name()] = status
			if status != "ok" {
				report.Status = "degraded"
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}
