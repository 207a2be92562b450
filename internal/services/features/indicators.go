package features

import "math"

// Daily-close indicator math for the collector. Every function reports ok =
// false when the series is too short, so callers can carry "indicator
// unavailable" instead of a fake zero.

// SMA returns the simple moving average of the last `period` closes.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// EMASeries computes the exponential moving average over the whole series,
// seeded with the SMA of the first `period` values. Returns one value per
// input close from index period-1 onward.
func EMASeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	out := make([]float64, 0, len(closes)-period+1)
	seed := 0.0
	for _, c := range closes[:period] {
		seed += c
	}
	ema := seed / float64(period)
	out = append(out, ema)
	k := 2.0 / float64(period+1)
	for _, c := range closes[period:] {
		ema = c*k + ema*(1-k)
		out = append(out, ema)
	}
	return out
}

// RSI computes the Wilder-smoothed relative strength index over `period`
// bars, using the full series for smoothing.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD returns the latest MACD line (EMA fast − EMA slow) and its signal
// line (EMA of the MACD line over `signal` bars).
func MACD(closes []float64, fast, slow, signal int) (line, sig float64, ok bool) {
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) < slow+signal {
		return 0, 0, false
	}
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	// Align: emaSlow starts slow-fast bars later than emaFast.
	offset := slow - fast
	macd := make([]float64, len(emaSlow))
	for i := range emaSlow {
		macd[i] = emaFast[i+offset] - emaSlow[i]
	}
	sigSeries := EMASeries(macd, signal)
	if len(sigSeries) == 0 {
		return 0, 0, false
	}
	return macd[len(macd)-1], sigSeries[len(sigSeries)-1], true
}

// BollingerWidth returns (upper − lower) / lastClose for 20-period bands at
// 2 standard deviations.
func BollingerWidth(closes []float64) (float64, bool) {
	const period = 20
	mid, ok := SMA(closes, period)
	if !ok {
		return 0, false
	}
	last := closes[len(closes)-1]
	if last == 0 {
		return 0, false
	}
	variance := 0.0
	for _, c := range closes[len(closes)-period:] {
		d := c - mid
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))
	return 4 * sd / last, true
}

// CyclePosition places the latest close between the series low (0) and
// high (1). A flat series reads the midpoint.
func CyclePosition(closes []float64) (float64, bool) {
	if len(closes) == 0 {
		return 0, false
	}
	lo, hi := closes[0], closes[0]
	for _, c := range closes {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	if hi <= lo {
		return 0.5, true
	}
	return (closes[len(closes)-1] - lo) / (hi - lo), true
}

// FibLevels returns the standard retracement levels between the series high
// and low, keyed by ratio.
func FibLevels(closes []float64) map[string]float64 {
	if len(closes) == 0 {
		return nil
	}
	lo, hi := closes[0], closes[0]
	for _, c := range closes {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	out := make(map[string]float64, 5)
	for _, ratio := range []float64{0.236, 0.382, 0.5, 0.618, 0.786} {
		out[trimRatio(ratio)] = hi - (hi-lo)*ratio
	}
	return out
}

func trimRatio(r float64) string {
	switch r {
	case 0.5:
		return "0.5"
	case 0.236:
		return "0.236"
	case 0.382:
		return "0.382"
	case 0.618:
		return "0.618"
	default:
		return "0.786"
	}
}
