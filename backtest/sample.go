package backtest

import (
	"math"
	"math/rand"
	"time"
)

// GenerateSampleBars produces hourly bars between start and end by walking a
// geometric Brownian motion with 5% annual drift and the given volatility.
// The same seed always yields the same series.
func GenerateSampleBars(start, end time.Time, initialPrice, volatility float64, seed int64) []Bar {
	rng := rand.New(rand.NewSource(seed))

	const (
		mu = 0.05
		dt = 1.0 / (365 * 24)
	)
	drift := (mu - 0.5*volatility*volatility) * dt
	step := volatility * math.Sqrt(dt)

	var bars []Bar
	price := initialPrice
	prevClose := initialPrice

	for t := start; !t.After(end); t = t.Add(time.Hour) {
		price *= math.Exp(drift + step*rng.NormFloat64())

		open := prevClose
		high := math.Max(open, price) * (1 + rng.Float64()*0.01)
		low := math.Min(open, price) * (1 - rng.Float64()*0.01)

		bars = append(bars, Bar{
			Time:   t,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 10 + rng.Float64()*990,
		})
		prevClose = price
	}
	return bars
}
