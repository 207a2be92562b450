package scoring

// NeutralRisk is the value used whenever an input signal is unavailable.
// It sits at the middle of the band so a missing reading never biases the
// composite in either direction.
const NeutralRisk = 0.5

// Clamp01 bounds v to [0,1]. Applied after every arithmetic step so no
// intermediate value can leave the range and propagate.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// orNeutral resolves an optional reading through fn, or to the neutral prior
// when the reading is absent.
func orNeutral(v *float64, fn func(float64) float64) float64 {
	if v == nil {
		return NeutralRisk
	}
	return Clamp01(fn(*v))
}
