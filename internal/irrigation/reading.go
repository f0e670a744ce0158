package irrigation

import (
	"math/rand/v2"
	"time"
)

// Reading is one snapshot of the simulated field sensors.
type Reading struct {
	Moisture    float64   `json:"moisture"`
	Temperature float64   `json:"temperature"`
	Rainfall    float64   `json:"rainfall"`
	Humidity    float64   `json:"humidity"`
	At          time.Time `json:"at"`
}

// walk bounds one sensor's random walk: each step moves at most Jitter/2
// either way and the result is clamped to [Min, Max].
type walk struct {
	Min, Max, Jitter float64
}

var (
	moistureWalk    = walk{Min: 30, Max: 90, Jitter: 5}
	temperatureWalk = walk{Min: 20, Max: 40, Jitter: 2}
	rainfallWalk    = walk{Min: 0, Max: 50, Jitter: 5}
	humidityWalk    = walk{Min: 40, Max: 95, Jitter: 3}
)

// InitialReading is the sensor state the simulator starts from.
func InitialReading(at time.Time) Reading {
	return Reading{Moisture: 65, Temperature: 28, Rainfall: 15, Humidity: 72, At: at}
}

// Step advances every sensor by one bounded random increment. At is left
// unchanged.
func Step(prev Reading, rnd *rand.Rand) Reading {
	next := prev
	next.Moisture = moistureWalk.step(prev.Moisture, rnd)
	next.Temperature = temperatureWalk.step(prev.Temperature, rnd)
	next.Rainfall = rainfallWalk.step(prev.Rainfall, rnd)
	next.Humidity = humidityWalk.step(prev.Humidity, rnd)
	return next
}

func (w walk) step(v float64, rnd *rand.Rand) float64 {
	v += (rnd.Float64() - 0.5) * w.Jitter
	return min(w.Max, max(w.Min, v))
}
