package main

import (
	"fmt"
	"io"
	"os"

	"pulsedrive/config"
	"pulsedrive/control"
	"pulsedrive/core"
)

// simOptions drive one offline run.
type simOptions struct {
	Ticks       int
	Every       int     // print every Nth tick, 0 for none
	CurrentMA   int32   // target magnitude
	RevsPerSec  float64 // target rotation rate
	SupplyMV    int32   // 0 keeps the configured nominal supply
	ResistanceM int32   // plant winding resistance in mOhm, 0 uses the config value
}

// simResult summarizes a run.
type simResult struct {
	Ticks      int
	Guarded    int
	MaxCompare uint16
	Position   control.AbsPosition
	Speed      int64
}

func simCommand(args []string) error {
	fs := newFlagSet("sim")
	configPath := fs.String("config", "", "JSON drive configuration (default: bench stepper)")
	ticks := fs.Int("ticks", 2000, "Number of control ticks to run")
	every := fs.Int("every", 100, "Print duties every N ticks (0 = summary only)")
	current := fs.Int("current", 1000, "Target current magnitude in mA")
	rps := fs.Float64("rps", 5, "Target rotation in revolutions per second")
	supply := fs.Int("supply", 0, "Supply voltage in mV (0 = configured nominal)")
	plantR := fs.Int("plant-resistance", 0, "Simulated winding resistance in mOhm (0 = configured)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.DefaultStepperConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return err
		}
		cfg, err = config.LoadConfig(data)
		if err != nil {
			return fmt.Errorf("%s: %w", *configPath, err)
		}
	}
	logger.Info().
		Str("motor", cfg.Motor).
		Str("estimation", cfg.Estimation).
		Str("pattern", cfg.Pattern).
		Uint32("tick_hz", cfg.TickHz).
		Msg("simulating")

	res, err := runSim(cfg, simOptions{
		Ticks:       *ticks,
		Every:       *every,
		CurrentMA:   int32(*current),
		RevsPerSec:  *rps,
		SupplyMV:    int32(*supply),
		ResistanceM: int32(*plantR),
	}, os.Stdout)
	if err != nil {
		return err
	}

	logger.Info().
		Int("ticks", res.Ticks).
		Int("guarded", res.Guarded).
		Uint16("max_compare", res.MaxCompare).
		Int32("rotations", res.Position.Rotations).
		Int32("angle", res.Position.Angle).
		Int64("speed", res.Speed).
		Msg("done")
	return nil
}

// runSim runs the pipeline against a resistive winding whose rotor follows
// the commanded angle exactly.
func runSim(cfg *config.DriveConfig, opts simOptions, w io.Writer) (simResult, error) {
	var res simResult
	if opts.Ticks <= 0 {
		return res, fmt.Errorf("ticks must be positive, got %d", opts.Ticks)
	}

	params := cfg.Params()
	ctx := control.NewContext(params)
	in := cfg.Inputs()
	if opts.SupplyMV != 0 {
		in.Supply = core.SupplyFromMV(opts.SupplyMV, in.Supply.MaxSenseMV)
	}
	in.CurrentTarget.Magnitude = opts.CurrentMA

	plantR := opts.ResistanceM
	if plantR == 0 {
		plantR = params.ResistanceMOhm
	}
	step := int32(opts.RevsPerSec * (1 << 32) / float64(cfg.TickHz))

	if opts.Every > 0 {
		fmt.Fprintln(w, "tick\tA\tB\tC\tD\trotations\tangle")
	}

	var last control.Outputs
	for i := 1; i <= opts.Ticks; i++ {
		in.CurrentTarget.Angle += step
		in.RawAngle = uint32(in.CurrentTarget.Angle)
		in.CurrentMeasured = plantCurrent(last.Voltage, in.Supply.MaxSenseMV, plantR)

		last = ctx.Tick(in)
		if last.Guarded {
			res.Guarded++
		}
		for ch := range last.Duty.Compare {
			if last.Duty.Enabled[ch] && last.Duty.Compare[ch] > res.MaxCompare {
				res.MaxCompare = last.Duty.Compare[ch]
			}
		}
		if opts.Every > 0 && i%opts.Every == 0 {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n", i,
				dutyCell(last.Duty, 0), dutyCell(last.Duty, 1),
				dutyCell(last.Duty, 2), dutyCell(last.Duty, 3),
				last.Position.Rotations, last.Position.Angle)
		}
	}

	res.Ticks = opts.Ticks
	res.Position = last.Position
	res.Speed = last.Speed
	return res, nil
}

// plantCurrent converts the normalized phase voltage back to mV and applies
// Ohm's law.
func plantCurrent(v control.AxisPair16, maxSenseMV, resistanceMOhm int32) control.AxisPair {
	if resistanceMOhm <= 0 {
		return control.AxisPair{}
	}
	toMA := func(n int16) int32 {
		mv := int64(n) * int64(maxSenseMV) >> 15
		return int32(mv * 1000 / int64(resistanceMOhm))
	}
	return control.AxisPair{Sin: toMA(v.Sin), Cos: toMA(v.Cos)}
}

func dutyCell(d control.Duty, ch int) string {
	if !d.Enabled[ch] {
		return "Z"
	}
	return fmt.Sprint(d.Compare[ch])
}
