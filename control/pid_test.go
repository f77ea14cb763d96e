package control

import "testing"

func TestPIDZeroGains(t *testing.T) {
	var p PID
	for _, ref := range []int32{0, 100, -5000, 1 << 20} {
		out, _ := p.Tick(0, ref, 1234, PIDGains{}, 10000)
		if out != 0 {
			t.Errorf("Zero gains with ref=%d: expected 0, got %d", ref, out)
		}
	}
}

func TestPIDProportional(t *testing.T) {
	var p PID
	out, err := p.Tick(0, 100, 0, PIDGains{Kp: 1000}, 10000)
	if out != 100 {
		t.Errorf("Expected output 100, got %d", out)
	}
	if err != 100 {
		t.Errorf("Expected error 100, got %d", err)
	}
}

func TestPIDOutputClamp(t *testing.T) {
	tests := []struct {
		name   string
		ref    int32
		limit  int32
		expect int32
	}{
		{"positive saturation", 5000, 1000, 1000},
		{"negative saturation", -5000, 1000, -1000},
		{"within range", 500, 1000, 500},
		{"zero limit", 500, 0, 0},
	}
	for _, tt := range tests {
		var p PID
		out, _ := p.Tick(0, tt.ref, 0, PIDGains{Kp: 1000}, tt.limit)
		if out != tt.expect {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expect, out)
		}
	}
}

func TestPIDIntegralClamp(t *testing.T) {
	p := NewPID(10)
	for i := 0; i < 5; i++ {
		p.Tick(0, 100, 0, PIDGains{Ki: 1000}, 1<<20)
	}
	if p.Integral() != 10 {
		t.Errorf("Expected integral clamped to 10, got %d", p.Integral())
	}
	for i := 0; i < 5; i++ {
		p.Tick(0, -100, 0, PIDGains{Ki: 1000}, 1<<20)
	}
	if p.Integral() != -10 {
		t.Errorf("Expected integral clamped to -10, got %d", p.Integral())
	}
}

func TestPIDDefaultIntegralLimit(t *testing.T) {
	var p PID
	for i := 0; i < 4; i++ {
		p.Tick(0, 1<<30, 0, PIDGains{}, 0)
	}
	if p.Integral() != DefaultIntegralLimit {
		t.Errorf("Expected integral %d, got %d", DefaultIntegralLimit, p.Integral())
	}
}

func TestPIDIntegralAccumulates(t *testing.T) {
	var p PID
	g := PIDGains{Ki: 500}
	var out int32
	for i := 0; i < 4; i++ {
		out, _ = p.Tick(0, 10, 0, g, 1000)
	}
	// integral = 40, I = 500*40/1000
	if out != 20 {
		t.Errorf("Expected 20, got %d", out)
	}
}

func TestPIDDerivative(t *testing.T) {
	var p PID
	g := PIDGains{Kd: 1000}
	out, _ := p.Tick(0, 100, 0, g, 10000)
	if out != 100 {
		t.Errorf("First step: expected 100, got %d", out)
	}
	out, _ = p.Tick(0, 100, 0, g, 10000)
	if out != 0 {
		t.Errorf("Steady error: expected 0, got %d", out)
	}
	out, _ = p.Tick(50, 100, 0, g, 10000)
	if out != -50 {
		t.Errorf("Falling error: expected -50, got %d", out)
	}
}

func TestPIDFeedForward(t *testing.T) {
	var p PID
	out, _ := p.Tick(0, 0, 200, PIDGains{Kff: 500}, 10000)
	if out != 100 {
		t.Errorf("Expected feed-forward 100, got %d", out)
	}
}

func TestPIDReset(t *testing.T) {
	var p PID
	g := PIDGains{Ki: 1000, Kd: 1000}
	p.Tick(0, 100, 0, g, 10000)
	p.Reset()
	if p.Integral() != 0 {
		t.Errorf("Expected integral 0 after reset, got %d", p.Integral())
	}
	out, _ := p.Tick(0, 100, 0, g, 10000)
	if out != 200 {
		t.Errorf("Expected 200 after reset, got %d", out)
	}
}
