package control

// Params are fixed for the lifetime of a Context.
type Params struct {
	ResistanceMOhm int32
	Gains          PIDGains
	IntegralLimit  int32 // 0 selects DefaultIntegralLimit
	PWMResolution  uint16
	DutyBias       int16
	Brake          int16 // value for unused channels, usually Disabled
	TickHz         int32
}

// Inputs are written by the rest of the firmware and read once per tick.
type Inputs struct {
	Mode      EstimationMode
	Topology  MotorTopology
	Pattern   InterconnectPattern
	Alignment PWMAlignment

	VoltageTarget   AxisPair
	CurrentTarget   PolarTarget
	CurrentMeasured AxisPair
	Supply          VoltageContext

	RawAngle       uint32
	PositionOffset AbsPosition
}

// Outputs are the results of one tick.
type Outputs struct {
	Voltage  AxisPair16
	Channels ChannelQuad // before remapping
	Remapped ChannelQuad
	Duty     Duty
	Position AbsPosition
	Speed    int64
	Guarded  bool // the supply was unusable and every channel was disabled
}

// Context owns all state carried between ticks.
type Context struct {
	params   Params
	vector   CurrentVector
	topology TopologySelector
	position PositionTracker
}

// NewContext builds a context with zeroed controller state.
func NewContext(p Params) *Context {
	return &Context{
		params:   p,
		vector:   NewCurrentVector(p.IntegralLimit),
		topology: NewTopologySelector(),
		position: NewPositionTracker(),
	}
}

// Params returns the parameters the context was built with.
func (c *Context) Params() Params { return c.params }

// Tick runs one control cycle. It does not allocate.
func (c *Context) Tick(in Inputs) Outputs {
	var out Outputs
	out.Position, out.Speed = c.position.Tick(in.RawAngle, in.PositionOffset, c.params.TickHz)

	if !in.Supply.Valid() {
		c.topology.Reset()
		out.Channels = AllDisabled()
		out.Remapped = out.Channels
		out.Guarded = true
		return out
	}

	out.Voltage = c.vector.Tick(VectorInput{
		Mode:            in.Mode,
		VoltageTarget:   in.VoltageTarget,
		CurrentTarget:   in.CurrentTarget,
		CurrentMeasured: in.CurrentMeasured,
		ResistanceMOhm:  c.params.ResistanceMOhm,
		Supply:          in.Supply,
		Gains:           c.params.Gains,
	})
	out.Channels = c.topology.Tick(in.Topology, out.Voltage, in.Supply.Normalized, c.params.Brake)
	out.Remapped = in.Pattern.Apply(out.Channels)

	driver := DutyDriver{
		Resolution: c.params.PWMResolution,
		Bias:       c.params.DutyBias,
		Alignment:  in.Alignment,
	}
	out.Duty = driver.Compute(out.Remapped, in.Supply.Normalized)
	return out
}

// Reset returns the controller, topology and position state to construction
// values. Only call it while the loop is stopped.
func (c *Context) Reset() {
	c.vector.Reset()
	c.topology.Reset()
	c.position.Reset()
}
