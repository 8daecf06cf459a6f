package domain

import "context"

// HealthChecker is one dependency probed by the health endpoint.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}
