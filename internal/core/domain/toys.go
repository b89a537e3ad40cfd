package domain

const (
	VibrationMin = 0
	VibrationMax = 20
	ThrustingMin = 0
	ThrustingMax = 20
	PositionMin  = 0
	PositionMax  = 100

	DefaultPosition  = 50
	DefaultStrokeLow = 25
	DefaultStrokeTop = 75
)

// StrokeRange limits linear movement to a sub-range of the full stroke.
// Low is always strictly below High.
type StrokeRange struct {
	Low  int
	High int
}

// DesiredState is the target configuration of a single toy. Position,
// when set, takes over the toy and overrides function levels. Stroke is
// optional and only meaningful on toys with position control.
type DesiredState struct {
	Vibration int
	Thrusting int
	Position  *int
	Stroke    *StrokeRange
}

// Active reports whether the state would make the toy do anything.
func (s DesiredState) Active() bool {
	return s.Vibration > 0 || s.Thrusting > 0 || s.Position != nil || s.Stroke != nil
}

// PartialSettings is a merge delta. Nil fields leave the current value
// untouched. ClearPosition and ClearStroke reset the optional fields,
// an explicit value set in the same delta wins over its clear flag.
type PartialSettings struct {
	Vibration     *int
	Thrusting     *int
	Position      *int
	ClearPosition bool
	Stroke        *StrokeRange
	ClearStroke   bool
}

func ClampVibration(value int) int {
	return clamp(value, VibrationMin, VibrationMax)
}

func ClampThrusting(value int) int {
	return clamp(value, ThrustingMin, ThrustingMax)
}

func ClampPosition(value int) int {
	return clamp(value, PositionMin, PositionMax)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
