package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"pulsedrive/core"
	"pulsedrive/host/serial"
	"pulsedrive/host/trace"
)

func monitorCommand(args []string) error {
	fs := newFlagSet("monitor")
	device := fs.String("device", "/dev/ttyACM0", "Serial device path")
	baud := fs.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	duration := fs.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	dump := fs.Bool("dump", true, "Request a timing ring dump on connect")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()
	logger.Info().Str("device", *device).Msg("connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if *dump {
		if err := port.SendKey('d'); err != nil {
			return err
		}
	}

	sum, err := monitor(ctx, port, logger)
	logger.Info().Str("summary", sum.String()).Float64("overrun_rate", sum.OverrunRate()).Msg("trace summary")
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// monitor folds every trace line from r into a summary and logs events as
// they arrive. Malformed trace lines are logged and skipped.
func monitor(ctx context.Context, r io.Reader, log zerolog.Logger) (*trace.Summary, error) {
	sum := trace.NewSummary()
	started := time.Now()
	err := serial.ReadLines(ctx, r, func(line string) error {
		rec, err := sum.Add(line)
		if err != nil {
			log.Warn().Err(err).Str("line", line).Msg("malformed trace line")
			return nil
		}
		switch {
		case rec.Event != nil:
			logEvent(log, rec.Event)
		case rec.Status != nil:
			log.Debug().
				Uint32("ticks", rec.Status.Ticks).
				Uint32("overruns", rec.Status.Overruns).
				Uint32("guarded", rec.Status.Guarded).
				Uint32("driver_errors", rec.Status.DriverErrors).
				Int32("rotations", rec.Status.Rotations).
				Dur("elapsed", time.Since(started)).
				Msg("status")
		case rec.Header == "":
			log.Debug().Str("line", line).Msg("console")
		}
		return nil
	})
	return sum, err
}

func logEvent(log zerolog.Logger, evt *core.TimingEvent) {
	var e *zerolog.Event
	switch evt.EventType {
	case core.EvtOverrun, core.EvtDriverError, core.EvtWatchdog:
		e = log.Warn()
	case core.EvtGuard:
		e = log.Info()
	default:
		e = log.Debug()
	}
	e.Str("event", core.EventName(evt.EventType)).
		Uint8("ch", evt.Channel).
		Uint32("clock", evt.Clock).
		Uint32("v1", evt.Value1).
		Uint32("v2", evt.Value2).
		Msg("tick event")
}
