package recommend

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionSet lists the closed value sets a form should offer.
type OptionSet struct {
	SoilTypes []Option `json:"soilTypes"`
	Regions   []Option `json:"regions"`
	Seasons   []Option `json:"seasons"`
}

// Options returns the selectable soils, regions and seasons in display order.
func Options() OptionSet {
	return OptionSet{
		SoilTypes: []Option{
			{Value: string(SoilClay), Label: "Clay"},
			{Value: string(SoilLoamy), Label: "Loamy"},
			{Value: string(SoilSandy), Label: "Sandy"},
			{Value: string(SoilBlack), Label: "Black Soil"},
		},
		Regions: []Option{
			{Value: string(RegionNorth), Label: "North India"},
			{Value: string(RegionSouth), Label: "South India"},
			{Value: string(RegionEast), Label: "East India"},
			{Value: string(RegionWest), Label: "West India"},
		},
		Seasons: []Option{
			{Value: string(SeasonKharif), Label: "Kharif (Monsoon)"},
			{Value: string(SeasonRabi), Label: "Rabi (Winter)"},
			{Value: string(SeasonZaid), Label: "Zaid (Summer)"},
		},
	}
}
