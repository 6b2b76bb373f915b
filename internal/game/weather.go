package game

import (
	"math/rand"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
)

// DefaultWeather is the outcome of any roll not covered by a table
const DefaultWeather = "CLEAR"

// RollWeather picks from a weather table with a 0-99 roll over cumulative
// percentages. Anything past the listed outcomes is the default weather.
func RollWeather(cat *Catalog, tableID string, rng *rand.Rand) *Weather {
	table, ok := cat.WeatherTable(tableID)
	if !ok {
		if tableID != "" {
			logger.Log.WithField("table", tableID).Warn("Unknown weather table")
		}
		return cat.Weather(DefaultWeather)
	}
	roll := rng.Intn(100)
	cum := 0
	for _, o := range table {
		cum += o.Percent
		if roll < cum {
			return cat.Weather(o.Weather)
		}
	}
	return cat.Weather(DefaultWeather)
}

// updateWeather re-rolls the weather every WeatherInterval of distance traveled
func (r *Run) updateWeather() {
	interval := r.cat.Physics.WeatherInterval
	if interval <= 0 {
		return
	}
	traveled := float64(r.mission.Distance) - r.distance
	if traveled-r.lastWeatherChange < interval {
		return
	}
	r.lastWeatherChange = traveled
	next := RollWeather(r.cat, r.mission.WeatherTable, r.rng)
	if next.ID != r.weather.ID {
		r.floatText(FieldWidth/2, FieldHeight/3, next.Name, "#fff")
	}
	r.weather = next
	r.emit(CueWeather)
}
