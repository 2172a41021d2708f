package lpcconfig

import (
	"fmt"
	"io"
	"time"

	"github.com/openfroyo/boardcfg/pkg/boardconfig"
	"github.com/openfroyo/boardcfg/pkg/boards"
	"github.com/openfroyo/boardcfg/pkg/telemetry"
)

// DiagnosticsHeader opens the settings dump.
const DiagnosticsHeader = "== Configurable Board.txt Settings =="

// Result is the outcome of one Load.
type Result struct {
	LoadID   string
	Source   string
	Features Features

	// Config holds the loaded values.
	Config *Config

	// Board is the selected board; generic after a fallback.
	Board *boards.Board

	// Fallback is set when lpc.board named an unknown board.
	Fallback bool

	// Phase1 and Phase2 are the reports of the two passes. Phase2 is nil
	// when phase one failed.
	Phase1 *boardconfig.Report
	Phase2 *boardconfig.Report

	Derived  Derived
	Duration time.Duration

	boardTable *boardconfig.Table
	table      *boardconfig.Table
	err        error
}

// Issue is a parse issue tagged with the pass that found it.
type Issue struct {
	Phase   string `yaml:"phase" json:"phase"`
	Class   string `yaml:"class" json:"class"`
	Reason  string `yaml:"reason" json:"reason"`
	Line    int    `yaml:"line,omitempty" json:"line,omitempty"`
	Key     string `yaml:"key,omitempty" json:"key,omitempty"`
	Token   string `yaml:"token,omitempty" json:"token,omitempty"`
	Message string `yaml:"message" json:"message"`

	Err *boardconfig.ParseError `yaml:"-" json:"-"`
}

// Issues returns the issues of both passes in order.
func (r *Result) Issues() []Issue {
	var out []Issue
	for _, p := range []struct {
		name string
		rep  *boardconfig.Report
	}{{PhaseBoard, r.Phase1}, {PhaseFull, r.Phase2}} {
		if p.rep == nil {
			continue
		}
		for _, e := range p.rep.Issues {
			out = append(out, Issue{
				Phase:   p.name,
				Class:   string(e.Class),
				Reason:  e.Reason(),
				Line:    e.Line,
				Key:     e.Key,
				Token:   e.Token,
				Message: e.Error(),
				Err:     e,
			})
		}
	}
	return out
}

// HasRejections reports whether either pass rejected a line or token.
func (r *Result) HasRejections() bool {
	return (r.Phase1 != nil && r.Phase1.HasRejections()) ||
		(r.Phase2 != nil && r.Phase2.HasRejections())
}

// Err returns the stream error that ended the load, if any.
func (r *Result) Err() error {
	return r.err
}

// Status is ok, degraded (lines were rejected or the board fell back) or
// failed (the source could not be read).
func (r *Result) Status() string {
	switch {
	case r.err != nil:
		return telemetry.StatusFailed
	case r.Fallback || r.HasRejections():
		return telemetry.StatusDegraded
	}
	return telemetry.StatusOK
}

// Tables returns the board-name table followed by the full table, both bound
// to r.Config.
func (r *Result) Tables() []*boardconfig.Table {
	return []*boardconfig.Table{r.boardTable, r.table}
}

// Diagnostics writes every setting followed by the derived values.
func (r *Result) Diagnostics(w io.Writer) error {
	if _, err := fmt.Fprintln(w, DiagnosticsHeader); err != nil {
		return err
	}
	if err := boardconfig.Render(w, r.Tables()...); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "== Derived =="); err != nil {
		return err
	}
	return r.Derived.Render(w)
}

// Summary is the structured form of a Result for JSON and YAML output.
type Summary struct {
	LoadID   string                `yaml:"loadId" json:"loadId"`
	Source   string                `yaml:"source" json:"source"`
	Board    string                `yaml:"board" json:"board"`
	Fallback bool                  `yaml:"fallback" json:"fallback"`
	Status   string                `yaml:"status" json:"status"`
	Features Features              `yaml:"features" json:"features"`
	Settings []boardconfig.Setting `yaml:"settings" json:"settings"`
	Derived  Derived               `yaml:"derived" json:"derived"`
	Issues   []Issue               `yaml:"issues,omitempty" json:"issues,omitempty"`
}

// Summary returns the structured form of r.
func (r *Result) Summary() Summary {
	return Summary{
		LoadID:   r.LoadID,
		Source:   r.Source,
		Board:    r.Config.Board,
		Fallback: r.Fallback,
		Status:   r.Status(),
		Features: r.Features,
		Settings: boardconfig.Snapshot(r.Tables()...),
		Derived:  r.Derived,
		Issues:   r.Issues(),
	}
}
