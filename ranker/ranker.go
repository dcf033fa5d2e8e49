// Package ranker scores cities by how sunny, clear and mild they are, using
// weights the visitor sets with the sliders on the page.
package ranker

import (
	"math"
	"slices"
	"strings"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/slice"
)

const (
	baseScore    = 50
	idealTemp    = 65.0
	tempTolerant = 30.0

	MaxWeight = 100
)

type Weights struct {
	Sun   float64 `json:"sun"`
	Cloud float64 `json:"cloud"`
	Heat  float64 `json:"heat"`
}

func DefaultWeights() Weights {
	return Weights{Sun: 50, Cloud: 70, Heat: 30}
}

// Clamped limits every weight to the slider range 0..MaxWeight.
func (w Weights) Clamped() Weights {
	c := func(v float64) float64 { return math.Max(0, math.Min(MaxWeight, v)) }
	return Weights{Sun: c(w.Sun), Cloud: c(w.Cloud), Heat: c(w.Heat)}
}

// Score is floor(sun*wSun + (1-cloud)*wCloud + heat*wHeat + 50), where heat
// falls off linearly from 1 at 65 °F to 0 at 95 °F. Cooler than 65 °F scores
// above 1.
func Score(s climate.CityStats, w Weights) int {
	tempScore := math.Max(0, 1-(s.AvgTemp-idealTemp)/tempTolerant)
	return int(math.Floor(
		s.AvgSun*w.Sun +
			(1-s.AvgCloud)*w.Cloud +
			tempScore*w.Heat +
			baseScore))
}

type Ranked struct {
	Rank  int                 `json:"rank"`
	Score int                 `json:"score"`
	City  *climate.CityRecord `json:"city"`
}

// Rank scores every distinct city, best first. Equal scores keep directory
// order. Aliased names are ranked once.
func Rank(dir *climate.Directory, w Weights) []Ranked {
	records := dir.Records()
	ranked := make([]Ranked, 0, len(records))
	for _, rec := range records {
		ranked = append(ranked, Ranked{Score: Score(rec.Stats, w), City: rec})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Score - a.Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Search matches query as a case-insensitive substring of city names. An
// empty query lists every city alphabetically.
func Search(dir *climate.Directory, query string) []*climate.CityRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	records := dir.Records()

	if query == "" {
		sorted := slices.Clone(records)
		slices.SortStableFunc(sorted, func(a, b *climate.CityRecord) int {
			return strings.Compare(a.Name, b.Name)
		})
		return sorted
	}

	return slice.Filter(records, func(rec *climate.CityRecord) bool {
		return strings.Contains(strings.ToLower(rec.Name), query)
	})
}
