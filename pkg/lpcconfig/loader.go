package lpcconfig

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openfroyo/boardcfg/pkg/boardconfig"
	"github.com/openfroyo/boardcfg/pkg/boards"
	"github.com/openfroyo/boardcfg/pkg/pins"
	"github.com/openfroyo/boardcfg/pkg/source"
	"github.com/openfroyo/boardcfg/pkg/telemetry"
)

// Bootstrap phases.
const (
	PhaseBoard = "board"
	PhaseFull  = "full"
)

// Loader runs the two-phase bootstrap.
type Loader struct {
	registry *boards.Registry
	features Features
	tel      *telemetry.Telemetry
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRegistry selects boards from r instead of the built-in set.
func WithRegistry(r *boards.Registry) LoaderOption {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithFeatures sets the optional key groups.
func WithFeatures(f Features) LoaderOption {
	return func(l *Loader) {
		l.features = f
	}
}

// WithTelemetry sets the logger, tracer and metrics used by Load.
func WithTelemetry(t *telemetry.Telemetry) LoaderOption {
	return func(l *Loader) {
		l.tel = t
	}
}

// NewLoader creates a loader with the built-in boards and default features.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		features: DefaultFeatures(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = boards.Builtin()
	}
	if l.tel == nil {
		l.tel = telemetry.Discard()
	}
	return l
}

// Load reads src twice: once for the board name, then for everything else
// using that board's pin names. Rejected lines never fail the load; they are
// listed in the returned Result. The error is non-nil only when src cannot
// be opened or read, in which case the Result still holds the values applied
// so far.
func (l *Loader) Load(ctx context.Context, src source.Opener) (*Result, error) {
	timer := telemetry.NewTimer()
	id := uuid.NewString()

	ctx, span := l.tel.Tracer.StartLoadSpan(ctx, id, src.String())
	defer span.End()

	logger := l.tel.Logger.NewComponentLogger("loader").WithLoadID(id).WithSource(src.String())

	cfg := Defaults()
	res := &Result{
		LoadID:   id,
		Source:   src.String(),
		Features: l.features,
		Config:   cfg,
	}
	res.boardTable = BoardTable(cfg)
	res.table = Table(cfg, l.features)

	err := l.run(ctx, src, res, logger)
	res.Derived = Derive(cfg)
	res.Duration = timer.Duration()
	res.err = err

	l.record(res)
	span.SetAttributes(
		telemetry.AttrBoard.String(cfg.Board),
		telemetry.AttrFallback.Bool(res.Fallback),
		telemetry.AttrIssues.Int(len(res.Issues())),
	)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.WithError(err).Error("Failed to load board configuration")
		return res, err
	}
	telemetry.RecordSuccess(span)
	logger.WithBoard(cfg.Board).Infof("Loaded board configuration with %d issue(s)", len(res.Issues()))
	return res, nil
}

func (l *Loader) run(ctx context.Context, src source.Opener, res *Result, logger *telemetry.Logger) error {
	cfg := res.Config

	rep, err := l.parse(ctx, PhaseBoard, src, res.boardTable, nil, logger, boardconfig.SkipUnknownKeys())
	res.Phase1 = rep
	if err != nil && rep.Applied == 0 {
		res.Board = l.registry.Generic()
		cfg.Board = res.Board.Name
		cfg.ApplyBoardDefaults(res.Board.Defaults)
		return err
	}

	// A read failure after lpc.board was applied keeps the board it named.
	board, ok := l.registry.Lookup(cfg.Board)
	if !ok {
		logger.WithField("board", cfg.Board).Warn("Unknown board, using generic")
		board = l.registry.Generic()
		res.Fallback = true
	} else if rep.Applied == 0 {
		logger.Warn("No lpc.board set, using generic")
	}
	cfg.Board = board.Name
	res.Board = board
	cfg.ApplyBoardDefaults(board.Defaults)
	if err != nil {
		return err
	}

	rep, err = l.parse(ctx, PhaseFull, src, res.table, board, logger.WithBoard(board.Name),
		boardconfig.WithForeignKeys(res.boardTable))
	res.Phase2 = rep
	return err
}

func (l *Loader) parse(ctx context.Context, phase string, src source.Opener, table *boardconfig.Table, resolver pins.Resolver, logger *telemetry.Logger, opts ...boardconfig.Option) (*boardconfig.Report, error) {
	ctx, span := l.tel.Tracer.StartPhaseSpan(ctx, phase)
	defer span.End()

	logger = logger.WithPhase(phase)

	rc, err := src.Open(ctx)
	if err != nil {
		pe := &boardconfig.ParseError{Class: boardconfig.ClassStream, Err: err}
		telemetry.RecordError(span, pe)
		return &boardconfig.Report{Issues: []*boardconfig.ParseError{pe}}, pe
	}
	defer rc.Close()

	opts = append(opts, boardconfig.WithLogger(logger.Zerolog()))
	parser := boardconfig.NewParser(resolver, opts...)
	rep, err := parser.ParseReader(rc, table)

	span.SetAttributes(
		telemetry.AttrApplied.Int(rep.Applied),
		telemetry.AttrIssues.Int(len(rep.Issues)),
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return rep, err
	}
	logger.Debugf("Applied %d of %d lines", rep.Applied, rep.Lines)
	return rep, nil
}

func (l *Loader) record(res *Result) {
	m := l.tel.Metrics

	for _, p := range []struct {
		name string
		rep  *boardconfig.Report
	}{{PhaseBoard, res.Phase1}, {PhaseFull, res.Phase2}} {
		if p.rep == nil {
			continue
		}
		m.AddApplied(p.name, p.rep.Applied)
		for _, issue := range p.rep.Issues {
			m.RecordIssue(string(issue.Class), issue.Reason())
		}
	}

	// Line counts come from the full pass, which reads the whole file.
	if rep := res.Phase2; rep != nil {
		m.AddLines("empty", rep.Empty)
		m.AddLines("comment", rep.Comments)
		m.AddLines("applied", rep.Applied)
		m.AddLines("unknown", rep.Unknown)
		m.AddLines("truncated", rep.Truncated)
	}

	m.SetBoard(res.Config.Board)
	m.RecordLoad(res.Status(), res.Duration)
}

// IsSourceError reports whether err came from opening the configuration
// source rather than reading it.
func IsSourceError(err error) bool {
	var se *source.SourceError
	return errors.As(err, &se)
}
