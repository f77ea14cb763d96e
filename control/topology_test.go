package control

import "testing"

func TestCoilSplit(t *testing.T) {
	tests := []struct {
		ref          int16
		prev1, prev2 int16
		want1, want2 int16
	}{
		{-500, 7, 7, 0, 500},
		{500, 7, 7, 500, 0},
		{0, 7, 7, 0, 0},
		{Disabled, 7, 9, 7, 9},
		{Disabled, Disabled, Disabled, Disabled, Disabled},
		{-32767, 0, 0, 0, 32767},
	}
	for _, tt := range tests {
		o1, o2 := CoilSplit(tt.ref, tt.prev1, tt.prev2)
		if o1 != tt.want1 || o2 != tt.want2 {
			t.Errorf("CoilSplit(%d) = (%d, %d), expected (%d, %d)", tt.ref, o1, o2, tt.want1, tt.want2)
		}
	}
}

func TestTopologySingleCoil(t *testing.T) {
	s := NewTopologySelector()
	q := s.Tick(SingleCoil, AxisPair16{Sin: -500, Cos: 900}, 5698, Disabled)
	want := ChannelQuad{0, 500, Disabled, Disabled}
	if q != want {
		t.Errorf("Expected %v, got %v", want, q)
	}
}

func TestTopologyDualCoil(t *testing.T) {
	s := NewTopologySelector()
	q := s.Tick(DualCoil, AxisPair16{Sin: 100, Cos: 200}, 5698, Disabled)
	if want := (ChannelQuad{100, 0, 200, 0}); q != want {
		t.Errorf("Expected %v, got %v", want, q)
	}

	// A disabled axis keeps its previous outputs.
	q = s.Tick(DualCoil, AxisPair16{Sin: Disabled, Cos: -50}, 5698, Disabled)
	if want := (ChannelQuad{100, 0, 0, 50}); q != want {
		t.Errorf("Expected %v, got %v", want, q)
	}
}

func TestTopologyThreePhase(t *testing.T) {
	s := NewTopologySelector()
	q := s.Tick(ThreePhase, AxisPair16{Sin: 1000, Cos: 0}, 5698, Disabled)
	// Clarke gives (1000, -500, -500); offset is (5698-1000+500)>>1 = 2599
	want := ChannelQuad{3599, 2099, 2099, Disabled}
	if q != want {
		t.Errorf("Expected %v, got %v", want, q)
	}
}

func TestTopologyThreePhaseBrake(t *testing.T) {
	s := NewTopologySelector()
	q := s.Tick(ThreePhase, AxisPair16{}, 1000, 0)
	if q[ChD] != 0 {
		t.Errorf("Expected brake 0 on D, got %d", q[ChD])
	}
	if q[ChA] != 500 || q[ChB] != 500 || q[ChC] != 500 {
		t.Errorf("Expected zero vector centered at 500, got %v", q)
	}
}

func TestTopologyNoneDisablesAll(t *testing.T) {
	s := NewTopologySelector()
	s.Tick(DualCoil, AxisPair16{Sin: 100, Cos: 100}, 5698, Disabled)
	for _, topo := range []MotorTopology{TopologyNone, MotorTopology(42)} {
		if q := s.Tick(topo, AxisPair16{Sin: 100, Cos: 100}, 5698, 0); q != AllDisabled() {
			t.Errorf("%v: expected all disabled, got %v", topo, q)
		}
	}
}
