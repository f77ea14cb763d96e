package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pulsedrive/config"
	"pulsedrive/core"
)

func TestRunSimStepperOpenLoop(t *testing.T) {
	cfg := config.DefaultStepperConfig()
	var out bytes.Buffer

	// 10 rev/s at 10 kHz for 2050 ticks is a little over two turns
	res, err := runSim(cfg, simOptions{
		Ticks:      2050,
		Every:      500,
		CurrentMA:  1000,
		RevsPerSec: 10,
	}, &out)
	if err != nil {
		t.Fatalf("runSim failed: %v", err)
	}

	if res.Guarded != 0 {
		t.Errorf("Expected no guarded ticks, got %d", res.Guarded)
	}
	if res.Position.Rotations != 2 {
		t.Errorf("Expected 2 rotations, got %d", res.Position.Rotations)
	}
	// 1000 mA into 6.5 Ohm is 6.5 V of a 12 V supply
	if res.MaxCompare < 1600 || res.MaxCompare > 1630 {
		t.Errorf("Expected peak compare near 1625, got %d", res.MaxCompare)
	}
	if res.Speed <= 0 {
		t.Errorf("Expected forward speed, got %d", res.Speed)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header plus 4 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "500\t") {
		t.Errorf("Unexpected first row %q", lines[1])
	}
}

func TestRunSimGuardsBadSupply(t *testing.T) {
	cfg := config.DefaultStepperConfig()
	res, err := runSim(cfg, simOptions{Ticks: 10, CurrentMA: 500, SupplyMV: -1}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("runSim failed: %v", err)
	}
	if res.Guarded != 10 {
		t.Errorf("Expected every tick guarded, got %d", res.Guarded)
	}
	if res.MaxCompare != 0 {
		t.Errorf("Expected no enabled output, got compare %d", res.MaxCompare)
	}
}

func TestRunSimRejectsZeroTicks(t *testing.T) {
	if _, err := runSim(config.DefaultStepperConfig(), simOptions{}, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for zero ticks")
	}
}

func TestMonitorSummarizesTrace(t *testing.T) {
	input := strings.Join([]string{
		"[BOOT] stepper voltage_estimation running",
		"[TICK] === Timing Ring Dump ===",
		core.FormatTimingEvent(core.TimingEvent{EventType: core.EvtOverrun, Value1: 1200}),
		core.FormatTimingEvent(core.TimingEvent{EventType: core.EvtWatchdog}),
		"[TICK] NOPE ch=0",
		"[TICK] === End Dump ===",
		"[LOOP] ticks=100 overruns=1 guarded=0 driver_errors=0 rotations=0",
	}, "\r\n") + "\r\n"

	var logs bytes.Buffer
	sum, err := monitor(context.Background(), strings.NewReader(input), zerolog.New(&logs))
	if err != nil {
		t.Fatalf("monitor failed: %v", err)
	}
	if sum.Events[core.EvtOverrun] != 1 || sum.Events[core.EvtWatchdog] != 1 {
		t.Errorf("Unexpected events %v", sum.Events)
	}
	if !sum.HaveLast || sum.Last.Ticks != 100 {
		t.Errorf("Expected last status with 100 ticks, got %+v", sum.Last)
	}
	if !strings.Contains(logs.String(), "malformed trace line") {
		t.Errorf("Expected malformed line to be logged, got %s", logs.String())
	}
	if !strings.Contains(logs.String(), `"event":"WATCHDOG!"`) {
		t.Errorf("Expected watchdog event in log, got %s", logs.String())
	}
}
