package lpcconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/boardcfg/pkg/boardconfig"
	"github.com/openfroyo/boardcfg/pkg/boards"
	"github.com/openfroyo/boardcfg/pkg/pins"
	"github.com/openfroyo/boardcfg/pkg/source"
	"github.com/openfroyo/boardcfg/pkg/telemetry"
)

const rearmFile = `# Re-ARM board file
lpc.board = ReArm

leds.diagnostic = play      // 4.28
heat.tempSensePins = { T0, t1, bogus }
stepper.stepPins = { 2.1, 2.2, 1.3 }
atx.powerPin = pson
sdCard.external.csPin = d16
sdCard.external.spiChannel = 1
lcd.spiChannel = 300
adc.prefilter.enable = no
unknown.key = 1
`

func load(t *testing.T, content string, opts ...LoaderOption) *Result {
	t.Helper()
	res, err := NewLoader(opts...).Load(context.Background(), source.Bytes("board.txt", []byte(content)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestLoadRearm(t *testing.T) {
	res := load(t, rearmFile)
	c := res.Config

	if c.Board != "rearm" || res.Board.Name != "rearm" || res.Fallback {
		t.Errorf("expected rearm without fallback, got %s (fallback %v)", c.Board, res.Fallback)
	}
	if c.DiagnosticLED != pins.New(4, 28) {
		t.Errorf("expected diagnostic LED 4.28, got %s", c.DiagnosticLED)
	}
	if diff := cmp.Diff([3]pins.Pin{pins.New(0, 23), pins.New(0, 24), pins.NoPin}, c.Heat.TempSensePins); diff != "" {
		t.Errorf("temp sense mismatch (-want +got):\n%s", diff)
	}

	// The first three step pins come from the file, the rest from the board.
	wantStep := [5]pins.Pin{pins.New(2, 1), pins.New(2, 2), pins.New(1, 3), pins.New(2, 0), pins.New(2, 8)}
	if diff := cmp.Diff(wantStep, c.Stepper.StepPins); diff != "" {
		t.Errorf("step pins mismatch (-want +got):\n%s", diff)
	}
	if c.Stepper.EnablePins != res.Board.Defaults.EnablePins {
		t.Errorf("expected board enable pins, got %v", c.Stepper.EnablePins)
	}

	if c.ATX.PowerPin != pins.New(2, 12) || c.SDCard.ExternalCSPin != pins.New(0, 16) {
		t.Errorf("unexpected pins %s, %s", c.ATX.PowerPin, c.SDCard.ExternalCSPin)
	}
	if c.LCD.SPIChannel != 255 {
		t.Errorf("expected channel clamped to 255, got %d", c.LCD.SPIChannel)
	}
	if c.ADCPreFilter {
		t.Error("expected prefilter off")
	}

	want := Derived{
		StepDriverMask:           0x107,
		StepPinsOnDifferentPorts: true,
		ExternalSDCardEnabled:    true,
		ExternalSDCardSSP:        true,
	}
	if diff := cmp.Diff(want, res.Derived); diff != "" {
		t.Errorf("derived mismatch (-want +got):\n%s", diff)
	}

	if res.Phase1.Applied != 1 || len(res.Phase1.Issues) != 0 {
		t.Errorf("unexpected phase one report %+v", res.Phase1)
	}
	if res.Phase2.Skipped != 1 {
		t.Errorf("expected lpc.board to be skipped in phase two, got %d", res.Phase2.Skipped)
	}

	issues := res.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", issues)
	}
	if issues[0].Phase != PhaseFull || issues[0].Reason != "pin_not_found" || issues[0].Token != "bogus" || issues[0].Line != 5 {
		t.Errorf("unexpected first issue %+v", issues[0])
	}
	if issues[1].Reason != "unknown_key" || issues[1].Key != "unknown.key" {
		t.Errorf("unexpected second issue %+v", issues[1])
	}
	if res.Status() != telemetry.StatusDegraded {
		t.Errorf("expected degraded, got %s", res.Status())
	}
	if res.LoadID == "" || res.Source != "board.txt" {
		t.Errorf("unexpected identity %q %q", res.LoadID, res.Source)
	}
}

func TestLoadAliasesNeedBoard(t *testing.T) {
	res := load(t, "leds.diagnostic = play\natx.powerPin = 2.12\n")

	if res.Config.Board != boards.GenericName || res.Fallback {
		t.Errorf("expected generic without fallback, got %s", res.Config.Board)
	}
	if res.Config.DiagnosticLED != pins.NoPin {
		t.Errorf("expected alias to fail on generic, got %s", res.Config.DiagnosticLED)
	}
	if res.Config.ATX.PowerPin != pins.New(2, 12) {
		t.Errorf("expected literal to resolve, got %s", res.Config.ATX.PowerPin)
	}
}

func TestLoadUnknownBoardFallsBack(t *testing.T) {
	res := load(t, "lpc.board = duet3\nstepper.digipotFactor = 50\n")

	if !res.Fallback || res.Config.Board != boards.GenericName || res.Board.Name != boards.GenericName {
		t.Errorf("expected fallback to generic, got %s", res.Config.Board)
	}
	if res.Config.Stepper.DigipotFactor != 50 {
		t.Errorf("expected phase two to run, got digipot %v", res.Config.Stepper.DigipotFactor)
	}
	if res.Status() != telemetry.StatusDegraded {
		t.Errorf("expected degraded, got %s", res.Status())
	}
}

func TestLoadBoardDefaultsSurvive(t *testing.T) {
	res := load(t, "lpc.board = smoothieboard\n")

	if res.Config.Stepper.DigipotFactor != 113.33 {
		t.Errorf("expected smoothieboard digipot, got %v", res.Config.Stepper.DigipotFactor)
	}
	if !res.Derived.DriverCurrentControl || res.Derived.StepDriverMask != 0x10f {
		t.Errorf("unexpected derived %+v", res.Derived)
	}
	if res.Status() != telemetry.StatusOK {
		t.Errorf("expected ok, got %s", res.Status())
	}
}

func TestLoadCustomRegistry(t *testing.T) {
	reg := boards.Builtin()
	if err := reg.Register(&boards.Board{
		Name:     "bench",
		Pins:     pins.NewAliasTable(pins.NewAlias(pins.New(3, 25), pins.CapWrite, "beeper")),
		Defaults: boards.NoPinDefaults(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := load(t, "lpc.board = bench\nlcd.lcdBeepPin = beeper\n", WithRegistry(reg))
	if res.Config.LCD.BeepPin != pins.New(3, 25) {
		t.Errorf("expected custom alias to resolve, got %s", res.Config.LCD.BeepPin)
	}
}

func TestLoadFeatures(t *testing.T) {
	content := "8266wifi.espResetPin = 1.1\nlcd.lcdCSPin = 1.2\n"

	res := load(t, content, WithFeatures(Features{WiFi: true}))
	if res.Config.WiFi.EspResetPin != pins.New(1, 1) {
		t.Errorf("expected wifi key applied, got %s", res.Config.WiFi.EspResetPin)
	}
	if res.Config.LCD.CSPin != pins.NoPin || res.Phase2.Unknown != 1 {
		t.Errorf("expected lcd key to be unknown without the feature, got %s", res.Config.LCD.CSPin)
	}
}

type flakyOpener struct {
	data   []byte
	opens  int
	failAt int
	err    error
	// readErr, when set, is returned by every reader after data.
	readErr error
}

func (o *flakyOpener) Open(ctx context.Context) (io.ReadCloser, error) {
	o.opens++
	if o.opens == o.failAt {
		return nil, &source.SourceError{Op: "open", Location: o.String(), Err: o.err}
	}
	if o.readErr != nil {
		return io.NopCloser(io.MultiReader(bytes.NewReader(o.data), iotest.ErrReader(o.readErr))), nil
	}
	return io.NopCloser(bytes.NewReader(o.data)), nil
}

func (o *flakyOpener) String() string { return "flaky" }

func TestLoadOpenFailure(t *testing.T) {
	cause := errors.New("no card")
	src := &flakyOpener{failAt: 1, err: cause}

	res, err := NewLoader().Load(context.Background(), src)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, cause) || !boardconfig.IsStreamError(err) || !IsSourceError(err) {
		t.Errorf("expected wrapped stream error, got %v", err)
	}
	if res == nil || res.Config.Board != boards.GenericName || res.Phase2 != nil {
		t.Fatalf("expected defaults-only result, got %+v", res)
	}
	if res.Status() != telemetry.StatusFailed || res.Err() != err {
		t.Errorf("expected failed status, got %s", res.Status())
	}
	if src.opens != 1 {
		t.Errorf("expected no second open, got %d", src.opens)
	}
}

func TestLoadSecondOpenFailure(t *testing.T) {
	src := &flakyOpener{data: []byte("lpc.board = mbed\nleds.diagnostic = 1.18\n"), failAt: 2, err: errors.New("gone")}

	res, err := NewLoader().Load(context.Background(), src)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if res.Config.Board != "mbed" {
		t.Errorf("expected board from phase one, got %s", res.Config.Board)
	}
	mbed, _ := boards.Builtin().Lookup("mbed")
	if res.Config.Stepper.StepPins != mbed.Defaults.StepPins {
		t.Error("expected board defaults applied before phase two")
	}
	if res.Config.DiagnosticLED != pins.NoPin {
		t.Errorf("expected phase two not to apply, got %s", res.Config.DiagnosticLED)
	}
	if res.Phase2 == nil || res.Phase2.Count(boardconfig.ClassStream) != 1 {
		t.Errorf("expected stream issue in phase two, got %+v", res.Phase2)
	}
}

func TestLoadReadFailureKeepsBoard(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantBoard string
		fallback  bool
	}{
		{
			name:      "board applied before failure",
			data:      "lpc.board = smoothieboard\nleds.diagnostic = 1.18\n",
			wantBoard: "smoothieboard",
		},
		{
			name:      "unknown board applied before failure",
			data:      "lpc.board = duet\n",
			wantBoard: boards.GenericName,
			fallback:  true,
		},
		{
			name:      "failure before any board line",
			data:      "# nothing yet\n",
			wantBoard: boards.GenericName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := errors.New("card removed")
			src := &flakyOpener{data: []byte(tt.data), readErr: cause}

			res, err := NewLoader().Load(context.Background(), src)
			if !errors.Is(err, cause) || !boardconfig.IsStreamError(err) {
				t.Fatalf("expected stream error wrapping %v, got %v", cause, err)
			}
			if res.Config.Board != tt.wantBoard || res.Fallback != tt.fallback {
				t.Errorf("expected board %s (fallback=%v), got %s (fallback=%v)",
					tt.wantBoard, tt.fallback, res.Config.Board, res.Fallback)
			}
			board, _ := boards.Builtin().Lookup(tt.wantBoard)
			if res.Board != nil && res.Board.Name != board.Name {
				t.Errorf("expected selected board %s, got %s", board.Name, res.Board.Name)
			}
			if res.Config.Stepper.StepPins != board.Defaults.StepPins {
				t.Errorf("expected %s defaults, got step pins %v", board.Name, res.Config.Stepper.StepPins)
			}
			if res.Phase2 != nil {
				t.Error("expected phase two not to run")
			}
			if res.Config.DiagnosticLED != pins.NoPin {
				t.Errorf("expected phase two values not applied, got %s", res.Config.DiagnosticLED)
			}
			if res.Status() != telemetry.StatusFailed {
				t.Errorf("expected failed status, got %s", res.Status())
			}
			if src.opens != 1 {
				t.Errorf("expected one open, got %d", src.opens)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.txt")
	if err := os.WriteFile(path, []byte(rearmFile), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := NewLoader().Load(context.Background(), source.File(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Config.Board != "rearm" {
		t.Errorf("expected rearm, got %s", res.Config.Board)
	}
}

func TestLoadTelemetry(t *testing.T) {
	var logs bytes.Buffer
	cfg := telemetry.DefaultConfig()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	metrics, err := telemetry.NewMetrics(cfg.Metrics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tel := &telemetry.Telemetry{
		Logger:  telemetry.NewLoggerTo(cfg.Logging, &logs),
		Tracer:  telemetry.NewTracerWithExporter(cfg.Tracing, nil, nil),
		Metrics: metrics,
		Config:  cfg,
	}

	res := load(t, rearmFile, WithTelemetry(tel))
	load(t, "lpc.board = duet3\n", WithTelemetry(tel))

	if n, _ := testutil.GatherAndCount(metrics.Registry(), "boardcfg_loads_total"); n != 1 {
		t.Errorf("expected one status series, got %d", n)
	}
	if n, _ := testutil.GatherAndCount(metrics.Registry(), "boardcfg_issues_total"); n != 2 {
		t.Errorf("expected two issue series, got %d", n)
	}

	want := `
# HELP boardcfg_board_info Board selected by the last load (always 1)
# TYPE boardcfg_board_info gauge
boardcfg_board_info{board="generic"} 1
`
	if err := testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(want), "boardcfg_board_info"); err != nil {
		t.Errorf("unexpected board_info: %v", err)
	}

	out := logs.String()
	for _, s := range []string{
		`"load_id":"` + res.LoadID + `"`,
		`"message":"Rejected configuration line"`,
		`"phase":"full"`,
		`"message":"Unknown board, using generic"`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %s in logs", s)
		}
	}

	var lines []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", l, err)
		}
		lines = append(lines, m)
	}
	if lines[0]["level"] == nil {
		t.Error("expected level field")
	}
}

func TestDiagnostics(t *testing.T) {
	res := load(t, "lpc.board = azteegx5mini1.1\nheat.tempSensePins = { 0.23 }\n")

	var buf bytes.Buffer
	if err := res.Diagnostics(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	if lines[0] != DiagnosticsHeader {
		t.Errorf("expected header, got %q", lines[0])
	}
	if lines[1] != "lpc.board = azteegx5mini1.1" {
		t.Errorf("expected board entry first, got %q", lines[1])
	}
	if len(lines) != 1+1+26+1+5 {
		t.Errorf("expected %d lines, got %d", 34, len(lines))
	}

	for _, want := range []string{
		"heat.tempSensePins = { 0.23 NoPin NoPin }",
		"stepper.digipotFactor = 106.00",
		"sdCard.external.spiChannel = 255",
		"adc.prefilter.enable = true",
		"== Derived ==",
		"stepper.currentControl = true",
		"sdCard.external.enabled = false",
	} {
		if !strings.Contains(buf.String(), want+"\n") {
			t.Errorf("expected line %q in:\n%s", want, buf.String())
		}
	}
}

func TestSummary(t *testing.T) {
	res := load(t, rearmFile)
	s := res.Summary()

	if s.Board != "rearm" || s.Status != telemetry.StatusDegraded || len(s.Issues) != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if len(s.Settings) != 27 || s.Settings[0].Key != "lpc.board" {
		t.Errorf("expected board setting first of 27, got %d", len(s.Settings))
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"board":"rearm"`, `"stepDriverMask":263`, `"reason":"pin_not_found"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %s in %s", want, data)
		}
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "fallback: false") {
		t.Errorf("expected fallback in YAML, got %s", out)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := NewLoader().Load(ctx, source.Bytes("x", []byte("lpc.board = rearm\n")))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
