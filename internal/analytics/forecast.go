package analytics

import (
	"math"

	"pennywise/internal/models"
)

const (
	forecastMinMonths  = 4
	seasonLength       = 12
	maxForecastPeriods = 12
	dampingFactor      = 0.98
	confidenceZ        = 1.96

	modelDampedTrend = "holt_damped_trend"
	modelHoltWinters = "holt_winters_additive_damped"
)

// smoothingGrid is searched for alpha, beta and gamma. Its size bounds the
// cost of a forecast.
var smoothingGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}

// ForecastPoint is the projection for one future month with a symmetric
// confidence band.
type ForecastPoint struct {
	Month      string  `json:"month"`
	Forecast   float64 `json:"forecast"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// Forecast is a projection of monthly expense totals.
type Forecast struct {
	Model  string          `json:"model"`
	Points []ForecastPoint `json:"points"`
}

// ForecastSpending projects monthly expense totals periods months ahead
// using exponential smoothing with a damped additive trend. A twelve-month
// additive seasonal component is added once two full years of history exist.
// periods is clamped to [1, 12].
func ForecastSpending(txs []models.Transaction, periods int) (Forecast, error) {
	keys, values := monthlyExpenses(txs)
	if len(values) < forecastMinMonths {
		return Forecast{}, insufficient(forecastMinMonths, len(values), "months")
	}
	periods = max(1, min(periods, maxForecastPeriods))

	season := 0
	model := modelDampedTrend
	if len(values) >= 2*seasonLength {
		season = seasonLength
		model = modelHoltWinters
	}

	best := fitBest(values, season)
	sigma := best.sigma()

	last := keys[len(keys)-1]
	points := make([]ForecastPoint, periods)
	for h := 1; h <= periods; h++ {
		f := best.forecast(h)
		band := confidenceZ * sigma * math.Sqrt(float64(h))
		points[h-1] = ForecastPoint{
			Month:      last.AddDate(0, h, 0).Format(monthLayout),
			Forecast:   f,
			LowerBound: f - band,
			UpperBound: f + band,
		}
	}
	return Forecast{Model: model, Points: points}, nil
}

// smoothingFit is the final state of one exponential smoothing run.
type smoothingFit struct {
	phi      float64
	level    float64
	trend    float64
	seasonal []float64 // seasonal[t] for every observed t; empty when non-seasonal
	season   int
	sse      float64
	count    int
}

func (f smoothingFit) sigma() float64 {
	if f.count == 0 {
		return 0
	}
	return math.Sqrt(f.sse / float64(f.count))
}

func (f smoothingFit) forecast(h int) float64 {
	damped := 0.0
	p := 1.0
	for i := 0; i < h; i++ {
		p *= f.phi
		damped += p
	}
	y := f.level + damped*f.trend
	if f.season > 0 {
		n := len(f.seasonal)
		y += f.seasonal[n-f.season+(h-1)%f.season]
	}
	return y
}

func fitBest(y []float64, season int) smoothingFit {
	gammas := []float64{0}
	if season > 0 {
		gammas = smoothingGrid
	}

	var best smoothingFit
	found := false
	for _, alpha := range smoothingGrid {
		for _, beta := range smoothingGrid {
			for _, gamma := range gammas {
				fit := fitSmoothing(y, alpha, beta, gamma, dampingFactor, season)
				if !found || fit.sse < best.sse {
					best = fit
					found = true
				}
			}
		}
	}
	return best
}

// fitSmoothing runs the additive damped recursions over y and accumulates
// the squared one-step-ahead errors.
func fitSmoothing(y []float64, alpha, beta, gamma, phi float64, season int) smoothingFit {
	fit := smoothingFit{phi: phi, season: season}

	start := 1
	if season > 0 {
		first, second := mean(y[:season]), mean(y[season:2*season])
		fit.level = first
		fit.trend = (second - first) / float64(season)
		fit.seasonal = make([]float64, season, len(y))
		for i := 0; i < season; i++ {
			fit.seasonal[i] = y[i] - first
		}
		start = season
	} else {
		fit.level = y[0]
		fit.trend = y[1] - y[0]
	}

	for t := start; t < len(y); t++ {
		s := 0.0
		if season > 0 {
			s = fit.seasonal[t-season]
		}
		predicted := fit.level + phi*fit.trend + s
		err := y[t] - predicted
		fit.sse += err * err
		fit.count++

		prevLevel := fit.level
		fit.level = alpha*(y[t]-s) + (1-alpha)*(prevLevel+phi*fit.trend)
		fit.trend = beta*(fit.level-prevLevel) + (1-beta)*phi*fit.trend
		if season > 0 {
			fit.seasonal = append(fit.seasonal, gamma*(y[t]-fit.level)+(1-gamma)*s)
		}
	}
	return fit
}
