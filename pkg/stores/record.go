package stores

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
)

// FromResult converts a finished load into records ready for CreateLoad.
func FromResult(res *lpcconfig.Result) (*Load, []*Issue, error) {
	derived, err := json.Marshal(res.Derived)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode derived values: %w", err)
	}

	load := &Load{
		ID:        res.LoadID,
		Source:    res.Source,
		Board:     res.Config.Board,
		Fallback:  res.Fallback,
		Status:    res.Status(),
		Features:  strings.Join(res.Features.Names(), ","),
		Duration:  res.Duration,
		Derived:   string(derived),
		CreatedAt: time.Now(),
	}
	if err := res.Err(); err != nil {
		msg := err.Error()
		load.Error = &msg
	}

	resIssues := res.Issues()
	issues := make([]*Issue, 0, len(resIssues))
	for _, i := range resIssues {
		issues = append(issues, &Issue{
			LoadID:  res.LoadID,
			Phase:   i.Phase,
			Class:   i.Class,
			Reason:  i.Reason,
			Line:    i.Line,
			Key:     i.Key,
			Token:   i.Token,
			Message: i.Message,
		})
	}
	load.IssueCount = len(issues)

	return load, issues, nil
}
