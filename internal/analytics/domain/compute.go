package domain

// TrendDelta returns the signed percentage change from prior to current.
// A zero prior with activity is a full positive swing, never infinite.
func TrendDelta(prior, current float64) float64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - prior) / prior * 100
}

// Rate returns numerator/denominator as a percentage. A zero denominator
// yields 0, never a division fault.
func Rate(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
