package outfit

// Band is a temperature interval with the outfit suggested for it.
type Band struct {
	Key          string
	MinThreshold float64
	Label        string
	ImageRef     string
	BaseItems    []string
}

// bands is ordered by descending MinThreshold. The last entry is the floor.
var bands = []Band{
	{
		Key:          "hot",
		MinThreshold: 28,
		Label:        "Sleeveless/short sleeves + shorts",
		ImageRef:     "assets/clothes/hot.png",
		BaseItems:    []string{"Sleeveless top", "T-shirt", "Shorts", "Linen clothes"},
	},
	{
		Key:          "warm",
		MinThreshold: 23,
		Label:        "Short sleeves + thin shirt",
		ImageRef:     "assets/clothes/warm.png",
		BaseItems:    []string{"T-shirt", "Thin shirt", "Cotton pants"},
	},
	{
		Key:          "mild",
		MinThreshold: 20,
		Label:        "Long sleeves/thin cardigan",
		ImageRef:     "assets/clothes/mild.png",
		BaseItems:    []string{"Long sleeves", "Thin cardigan", "Long pants"},
	},
	{
		Key:          "cool",
		MinThreshold: 17,
		Label:        "Knit/sweatshirt",
		ImageRef:     "assets/clothes/cool.png",
		BaseItems:    []string{"Thin knit", "Sweatshirt", "Cardigan", "Long pants"},
	},
	{
		Key:          "chilly",
		MinThreshold: 12,
		Label:        "Jacket/hoodie",
		ImageRef:     "assets/clothes/chilly.png",
		BaseItems:    []string{"Jacket", "Hoodie", "Knit", "Long pants"},
	},
	{
		Key:          "cold",
		MinThreshold: 9,
		Label:        "Trench coat/field jacket",
		ImageRef:     "assets/clothes/cold.png",
		BaseItems:    []string{"Jacket", "Trench coat", "Knit", "Fleece-lined pants"},
	},
	{
		Key:          "very-cold",
		MinThreshold: 5,
		Label:        "Coat/thermal innerwear",
		ImageRef:     "assets/clothes/very-cold.png",
		BaseItems:    []string{"Coat", "Thermal innerwear", "Fleece-lined pants"},
	},
	{
		Key:          "freezing",
		MinThreshold: -100,
		Label:        "Padded jacket/heavy coat",
		ImageRef:     "assets/clothes/freezing.png",
		BaseItems:    []string{"Padded jacket", "Heavy coat", "Fleece-lined wear"},
	},
}

// Bands returns a copy of the catalog in table order.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// SelectBand returns the first band whose threshold does not exceed tempC.
// Temperatures below every threshold map to the last band.
func SelectBand(tempC float64) Band {
	for _, band := range bands {
		if tempC >= band.MinThreshold {
			return band
		}
	}
	return bands[len(bands)-1]
}
