package recommend

import "strings"

// SoilType is a soil category understood by the rule table.
type SoilType string

const (
	SoilClay  SoilType = "clay"
	SoilLoamy SoilType = "loamy"
	SoilSandy SoilType = "sandy"
	SoilBlack SoilType = "black"
)

// Region is a coarse geographic quadrant of India.
type Region string

const (
	RegionNorth Region = "north"
	RegionSouth Region = "south"
	RegionEast  Region = "east"
	RegionWest  Region = "west"
)

// Season is an Indian cropping season.
type Season string

const (
	SeasonKharif Season = "kharif"
	SeasonRabi   Season = "rabi"
	SeasonZaid   Season = "zaid"
)

// Outcome names which of the three result shapes was produced.
type Outcome string

const (
	OutcomeMatched    Outcome = "matched"
	OutcomeIncomplete Outcome = "incomplete_query"
	OutcomeNoMatch    Outcome = "no_rule_matched"
)

// Query is one form submission. District and City are required but not used by rules.
type Query struct {
	SoilType string `json:"soilType"`
	Region   string `json:"region"`
	District string `json:"district"`
	City     string `json:"city"`
	Season   string `json:"season"`
}

// Complete reports whether every field carries a non-blank value.
func (q Query) Complete() bool {
	for _, v := range []string{q.SoilType, q.Region, q.District, q.City, q.Season} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func (q Query) normalized() Query {
	return Query{
		SoilType: strings.ToLower(strings.TrimSpace(q.SoilType)),
		Region:   strings.ToLower(strings.TrimSpace(q.Region)),
		District: strings.TrimSpace(q.District),
		City:     strings.TrimSpace(q.City),
		Season:   strings.ToLower(strings.TrimSpace(q.Season)),
	}
}

// Suggestion is a single crop with the reason it was picked.
type Suggestion struct {
	Name      string `json:"name" yaml:"name"`
	Rationale string `json:"rationale" yaml:"rationale"`
}

// Result is the ordered, never-empty answer to a Query.
type Result struct {
	Outcome     Outcome      `json:"outcome"`
	Suggestions []Suggestion `json:"suggestions"`
}

var incompletePlaceholder = Suggestion{
	Name:      "Please fill all fields",
	Rationale: "All selections are required to provide a specific recommendation.",
}

var (
	knownSoils   = map[SoilType]bool{SoilClay: true, SoilLoamy: true, SoilSandy: true, SoilBlack: true}
	knownRegions = map[Region]bool{RegionNorth: true, RegionSouth: true, RegionEast: true, RegionWest: true}
	knownSeasons = map[Season]bool{SeasonKharif: true, SeasonRabi: true, SeasonZaid: true}
)
