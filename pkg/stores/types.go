package stores

import (
	"context"
	"time"
)

// Load is one recorded configuration load.
type Load struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`
	Board      string        `json:"board"`
	Fallback   bool          `json:"fallback"`
	Status     string        `json:"status"`
	Features   string        `json:"features"`
	IssueCount int           `json:"issue_count"`
	Duration   time.Duration `json:"duration"`
	Error      *string       `json:"error,omitempty"`
	Derived    string        `json:"derived"` // JSON blob
	CreatedAt  time.Time     `json:"created_at"`
}

// Issue is one rejected or ignored line of a recorded load.
type Issue struct {
	ID      int64  `json:"id"`
	LoadID  string `json:"load_id"`
	Phase   string `json:"phase"`
	Class   string `json:"class"`
	Reason  string `json:"reason"`
	Line    int    `json:"line"`
	Key     string `json:"key,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// ListOptions filters ListLoads.
type ListOptions struct {
	// Source restricts results to one source location.
	Source string

	// Status restricts results to one load status.
	Status string

	Limit  int
	Offset int
}

// Store defines the interface for load history persistence.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Load operations
	CreateLoad(ctx context.Context, load *Load, issues []*Issue) error
	GetLoad(ctx context.Context, id string) (*Load, error)
	ListLoads(ctx context.Context, opts ListOptions) ([]*Load, error)
	ListIssues(ctx context.Context, loadID string) ([]*Issue, error)
	DeleteLoad(ctx context.Context, id string) error
	PruneLoads(ctx context.Context, before time.Time) (int64, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
