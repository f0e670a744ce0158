package recommend

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Rule contributes its Suggestion when the query's soil and region are both allowed.
// An empty Soils or Regions list leaves that attribute unconstrained.
type Rule struct {
	Soils      []SoilType `json:"soils,omitempty" yaml:"soils,omitempty,flow"`
	Regions    []Region   `json:"regions,omitempty" yaml:"regions,omitempty,flow"`
	Suggestion `yaml:",inline"`
}

// Match reports whether the rule's predicate holds for a normalized query.
func (r Rule) Match(q Query) bool {
	if len(r.Soils) > 0 && !slices.Contains(r.Soils, SoilType(q.SoilType)) {
		return false
	}
	if len(r.Regions) > 0 && !slices.Contains(r.Regions, Region(q.Region)) {
		return false
	}
	return true
}

// SeasonBlock holds the rules evaluated for one season, in declaration order.
type SeasonBlock struct {
	Season Season `json:"season" yaml:"season"`
	Rules  []Rule `json:"rules" yaml:"rules"`
}

// Table is a full rule set plus the suggestions used when nothing matches.
type Table struct {
	Blocks   []SeasonBlock `json:"seasons" yaml:"seasons"`
	Fallback []Suggestion  `json:"fallback" yaml:"fallback"`
}

// Validate checks that every value in the table belongs to a known category.
func (t Table) Validate() error {
	var problems []error
	if len(t.Fallback) == 0 {
		problems = append(problems, errors.New("fallback must list at least one suggestion"))
	}
	for i, s := range t.Fallback {
		if strings.TrimSpace(s.Name) == "" {
			problems = append(problems, fmt.Errorf("fallback[%d]: name is required", i))
		}
	}
	for i, block := range t.Blocks {
		if !knownSeasons[block.Season] {
			problems = append(problems, fmt.Errorf("seasons[%d]: unknown season %q", i, block.Season))
		}
		for j, rule := range block.Rules {
			where := fmt.Sprintf("seasons[%d].rules[%d]", i, j)
			if strings.TrimSpace(rule.Name) == "" {
				problems = append(problems, fmt.Errorf("%s: name is required", where))
			}
			for _, soil := range rule.Soils {
				if !knownSoils[soil] {
					problems = append(problems, fmt.Errorf("%s: unknown soil %q", where, soil))
				}
			}
			for _, region := range rule.Regions {
				if !knownRegions[region] {
					problems = append(problems, fmt.Errorf("%s: unknown region %q", where, region))
				}
			}
		}
	}
	return errors.Join(problems...)
}

// RuleCount returns the number of rules across all season blocks.
func (t Table) RuleCount() int {
	n := 0
	for _, block := range t.Blocks {
		n += len(block.Rules)
	}
	return n
}

func (t Table) clone() Table {
	out := Table{
		Blocks:   make([]SeasonBlock, len(t.Blocks)),
		Fallback: slices.Clone(t.Fallback),
	}
	for i, block := range t.Blocks {
		rules := make([]Rule, len(block.Rules))
		for j, rule := range block.Rules {
			rules[j] = Rule{
				Soils:      slices.Clone(rule.Soils),
				Regions:    slices.Clone(rule.Regions),
				Suggestion: rule.Suggestion,
			}
		}
		out.Blocks[i] = SeasonBlock{Season: block.Season, Rules: rules}
	}
	return out
}

func soils(s ...SoilType) []SoilType { return s }
func regions(r ...Region) []Region   { return r }

// DefaultTable returns a fresh copy of the built-in rule table.
func DefaultTable() Table {
	return Table{
		Blocks: []SeasonBlock{
			{
				Season: SeasonKharif,
				Rules: []Rule{
					{
						Soils:   soils(SoilClay),
						Regions: regions(RegionSouth, RegionEast),
						Suggestion: Suggestion{
							Name:      "Rice (Paddy)",
							Rationale: "Clay soil retains the large amount of water rice needs during the monsoon (Kharif) season.",
						},
					},
					{
						Soils:   soils(SoilClay, SoilLoamy),
						Regions: regions(RegionEast),
						Suggestion: Suggestion{
							Name:      "Jute",
							Rationale: "Warm, humid Eastern monsoons and water-retentive soils suit jute fibre crops.",
						},
					},
					{
						Soils:   soils(SoilSandy, SoilLoamy),
						Regions: regions(RegionWest),
						Suggestion: Suggestion{
							Name:      "Bajra (Pearl Millet)",
							Rationale: "Drought-tolerant, fast-growing crop ideal for semi-arid Western regions during the monsoon.",
						},
					},
					{
						Soils:   soils(SoilLoamy),
						Regions: regions(RegionWest),
						Suggestion: Suggestion{
							Name:      "Cotton",
							Rationale: "Grows well in well-drained loamy soil and needs a long frost-free period with bright sunshine.",
						},
					},
					{
						Soils:   soils(SoilBlack),
						Regions: regions(RegionWest, RegionSouth),
						Suggestion: Suggestion{
							Name:      "Cotton",
							Rationale: "Black (regur) soil holds moisture through the dry spells of the cotton belt.",
						},
					},
					{
						Soils:   soils(SoilBlack),
						Regions: regions(RegionWest),
						Suggestion: Suggestion{
							Name:      "Soybean",
							Rationale: "Black soils of the Western plateau support high soybean yields under monsoon rain.",
						},
					},
					{
						Soils:   soils(SoilLoamy),
						Regions: regions(RegionNorth),
						Suggestion: Suggestion{
							Name:      "Maize",
							Rationale: "Fertile, well-drained Northern loams and monsoon warmth favour Kharif maize.",
						},
					},
					{
						Soils:   soils(SoilSandy),
						Regions: regions(RegionSouth),
						Suggestion: Suggestion{
							Name:      "Groundnut",
							Rationale: "Light sandy soil lets groundnut pegs penetrate and pods develop cleanly.",
						},
					},
				},
			},
			{
				Season: SeasonRabi,
				Rules: []Rule{
					{
						Soils:   soils(SoilLoamy, SoilSandy),
						Regions: regions(RegionNorth),
						Suggestion: Suggestion{
							Name:      "Wheat",
							Rationale: "Requires moderate temperature and irrigation. Ideal Rabi crop for loamy/sandy soils in the Northern plains.",
						},
					},
					{
						Soils:   soils(SoilSandy, SoilLoamy),
						Regions: regions(RegionNorth, RegionWest),
						Suggestion: Suggestion{
							Name:      "Mustard",
							Rationale: "Cool, dry winters and light soils make mustard a dependable Rabi oilseed.",
						},
					},
					{
						Soils:   soils(SoilBlack),
						Regions: regions(RegionWest),
						Suggestion: Suggestion{
							Name:      "Safflower",
							Rationale: "Deep-rooted oilseed that draws on residual moisture stored in Western black soils.",
						},
					},
					{
						Soils:   soils(SoilBlack),
						Regions: regions(RegionWest, RegionSouth),
						Suggestion: Suggestion{
							Name:      "Chickpea (Gram)",
							Rationale: "Grows on conserved soil moisture after the monsoon and fixes nitrogen for the next crop.",
						},
					},
					{
						Soils:   soils(SoilClay, SoilLoamy),
						Regions: regions(RegionEast),
						Suggestion: Suggestion{
							Name:      "Lentil (Masoor)",
							Rationale: "Follows Kharif rice on Eastern clay and loam, using residual moisture.",
						},
					},
					{
						Soils:   soils(SoilLoamy),
						Regions: regions(RegionSouth),
						Suggestion: Suggestion{
							Name:      "Sunflower",
							Rationale: "Mild Southern winters and well-drained loams suit a Rabi sunflower crop.",
						},
					},
				},
			},
			{
				Season: SeasonZaid,
				Rules: []Rule{
					{
						Soils: soils(SoilSandy, SoilLoamy),
						Suggestion: Suggestion{
							Name:      "Watermelon",
							Rationale: "Short summer crop that thrives in warm, light, well-drained soils.",
						},
					},
					{
						Soils:   soils(SoilLoamy),
						Regions: regions(RegionNorth, RegionEast),
						Suggestion: Suggestion{
							Name:      "Cucumber",
							Rationale: "Quick-maturing summer vegetable for irrigated loams between Rabi harvest and monsoon.",
						},
					},
					{
						Regions: regions(RegionNorth),
						Suggestion: Suggestion{
							Name:      "Moong (Green Gram)",
							Rationale: "60-day pulse that fits the Northern summer window and restores soil nitrogen.",
						},
					},
					{
						Soils:   soils(SoilClay, SoilBlack),
						Regions: regions(RegionSouth, RegionWest),
						Suggestion: Suggestion{
							Name:      "Urad (Black Gram)",
							Rationale: "Tolerates heavier soils and summer heat where irrigation is available.",
						},
					},
				},
			},
		},
		Fallback: []Suggestion{
			{
				Name:      "Sugarcane",
				Rationale: "Consider Sugarcane or other versatile crops suitable for your general region.",
			},
			{
				Name:      "Seasonal Vegetables",
				Rationale: "Short-duration vegetables adapt to most soils and seasons while you consult a local extension officer.",
			},
		},
	}
}
