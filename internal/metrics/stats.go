package metrics

import "math"

// RunningStat holds the values needed for an online mean and variance.
type RunningStat struct {
	Count int64
	Mean  float64
	M2    float64 // Sum of squares of differences from the current mean
	Min   float64
	Max   float64
}

// Add folds a value into the running statistic using Welford's online
// algorithm.
func (rs *RunningStat) Add(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// StdDev returns the sample standard deviation, or 0 with fewer than two
// values.
func (rs *RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}

// Summarize computes min, max and mean of values, and the relative standard
// deviation when withStdev is set.
func Summarize(values []float64, withStdev bool) Summary {
	var rs RunningStat
	for _, v := range values {
		rs.Add(v)
	}
	s := Summary{Min: rs.Min, Max: rs.Max, Mean: rs.Mean}
	if withStdev && rs.Mean != 0 {
		s.RelStdev = rs.StdDev() / rs.Mean
	}
	return s
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	var rs RunningStat
	for _, v := range values {
		rs.Add(v)
	}
	return rs.Mean
}

// StdDev returns the sample standard deviation of values.
func StdDev(values []float64) float64 {
	var rs RunningStat
	for _, v := range values {
		rs.Add(v)
	}
	return rs.StdDev()
}
