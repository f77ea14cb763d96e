//go:build rp2040

package main

import (
	_ "embed"
	"errors"
	"machine"
	"time"

	"pulsedrive/config"
	"pulsedrive/control"
	"pulsedrive/core"
	"pulsedrive/fixmath"
)

//go:embed drive.json
var driveJSON []byte

const (
	sensorPollMS  = 2
	statusEveryMS = 1000

	// Open-loop rotation step per sensor poll, in turn units
	rotateStep = 1 << 22

	currentStepMA = 50
)

var (
	loop     *core.ControlLoop
	watchdog *core.OutputWatchdog
	cfg      *config.DriveConfig

	rotating    bool
	targetAngle int32
	panics      uint32

	wasGuarded bool
	wasTripped bool
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	core.SetDebugWriter(USBWriteLine)
	core.InitAsyncDebug()
	core.SetDebugEnabled(true)
	core.SetTimingEnabled(true)

	var err error
	cfg, err = config.LoadConfig(driveJSON)
	if err != nil {
		core.DebugPrintln("[BOOT] config: " + err.Error() + ", using defaults")
		cfg = config.DefaultStepperConfig()
	}

	UpdateSystemTime()

	adc := NewRPAdcDriver()
	if err := adc.Init(); err != nil {
		core.DebugPrintln("[BOOT] ADC: " + err.Error())
	}
	core.SetADCDriver(adc)

	pwm, err := newPWMBackend(cfg)
	if err != nil {
		fatal("PWM: " + err.Error())
	}
	core.SetPWMDriver(pwm)

	feedback := initSensors(cfg)
	sense := cfg.SenseConfig()

	loop = core.NewControlLoop(control.NewContext(cfg.Params()), nil)
	loop.Update(func(in *control.Inputs) {
		*in = cfg.Inputs()
	})
	loop.SetPacer(&alarmPacer{})
	watchdog = core.NewOutputWatchdog(loop, cfg.WatchdogTicks())

	if err := loop.Start(cfg.TickPeriod()); err != nil {
		fatal("loop: " + err.Error())
	}
	watchdog.Arm()
	core.DebugPrintln("[BOOT] " + cfg.Motor + " " + cfg.Estimation + " running")

	lastPoll := time.Now()
	lastStatus := lastPoll
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					panics++
					_ = core.MustPWM().Disable()
				}
			}()

			UpdateSystemTime()
			core.ProcessTimers()

			now := time.Now()
			if now.Sub(lastPoll) >= sensorPollMS*time.Millisecond {
				lastPoll = now
				feedback.poll(loop, sense)
				if rotating {
					targetAngle += rotateStep
					loop.Update(func(in *control.Inputs) {
						in.CurrentTarget.Angle = targetAngle
					})
				}
				reportChanges()
			}
			if now.Sub(lastStatus) >= statusEveryMS*time.Millisecond {
				lastStatus = now
				core.DebugAsync(loop.StatusLine())
			}

			if USBAvailable() > 0 {
				if b, err := USBRead(); err == nil {
					handleKey(b)
				}
			}
		}()

		time.Sleep(10 * time.Microsecond)
	}
}

// reportChanges queues a console line when the supply guard or the output
// watchdog changes state.
func reportChanges() {
	guarded := loop.Outputs().Guarded
	if guarded != wasGuarded {
		wasGuarded = guarded
		if guarded {
			core.DebugAsync("[GUARD] supply out of range, outputs off")
		} else {
			core.DebugAsync("[GUARD] supply restored")
		}
	}
	tripped := watchdog.Tripped()
	if tripped && !wasTripped {
		core.DebugAsync("[WDT] tick stalled, outputs disabled")
	}
	wasTripped = tripped
}

// handleKey runs a one-letter console command.
func handleKey(b byte) {
	switch b {
	case 's':
		if err := loop.Start(cfg.TickPeriod()); err != nil {
			core.DebugPrintln("[CMD] start: " + err.Error())
			return
		}
		watchdog.Arm()
	case 'x':
		watchdog.Disarm()
		_ = loop.Stop()
	case 'r':
		rotating = !rotating
	case '+', '-':
		loop.Update(func(in *control.Inputs) {
			step := int32(currentStepMA)
			if b == '-' {
				step = -step
			}
			in.CurrentTarget.Magnitude = fixmath.Clamp(in.CurrentTarget.Magnitude+step, 0, cfg.Sense.CurrentFullScaleMA)
		})
	case 'd':
		core.DumpTimingRing(loop.Stats().Ticks)
	case '?':
		core.DebugPrintln(loop.StatusLine())
	}
}

// newPWMBackend builds and configures the output stage named by the config.
func newPWMBackend(cfg *config.DriveConfig) (core.PWMDriver, error) {
	var pins [core.PWMChannels]machine.Pin
	for i, name := range cfg.PWM.Pins {
		p, err := parsePin(name)
		if err != nil {
			return nil, err
		}
		pins[i] = p
	}

	var d core.PWMDriver
	switch cfg.PWM.Backend {
	case "pio":
		d = NewPIOPWMDriver(0, pins)
	default:
		d = NewRP2040PWMDriver(pins)
	}
	periodNs := uint64(1000000000) / uint64(cfg.PWM.FrequencyHz)
	if _, err := d.Configure(cfg.PWM.Resolution, periodNs); err != nil {
		return nil, err
	}
	return d, nil
}

// parsePin maps "gpioN" onto a machine pin.
func parsePin(name string) (machine.Pin, error) {
	const prefix = "gpio"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return 0, errors.New("bad pin name " + name)
	}
	n := 0
	for _, c := range name[len(prefix):] {
		if c < '0' || c > '9' {
			return 0, errors.New("bad pin name " + name)
		}
		n = n*10 + int(c-'0')
	}
	if n > 29 {
		return 0, errors.New("bad pin name " + name)
	}
	return machine.Pin(n), nil
}

// fatal blinks the LED forever.
func fatal(msg string) {
	core.DebugPrintln("[BOOT] " + msg)
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
