package outfit

import "strings"

const (
	noteUV          = "UV is high, sun protection is needed."
	noteMiddayHat   = "A hat is recommended when going out around midday."
	noteMiddayShade = "A parasol is recommended when going out around midday."
	noteMiddayGlass = "Sunglasses are recommended when going out around midday."
	noteAvoidMidday = "Avoid going out around midday."
	noteRain        = "Rain is likely, bring an umbrella."
	noteCold        = "It is cold, warm accessories are needed."
	noteHumid       = "Humidity is high, breathable fabrics are recommended."
	noteAirQuality  = "Air quality is poor."
	noteDiurnal     = "Large temperature swing between day and night."
)

// accessorySet keeps insertion order and lets the first writer of a name win.
type accessorySet struct {
	order []string
	notes map[string]string
}

func newAccessorySet() *accessorySet {
	return &accessorySet{notes: make(map[string]string)}
}

func (s *accessorySet) add(name, note string) {
	if _, ok := s.notes[name]; ok {
		return
	}
	s.notes[name] = note
	s.order = append(s.order, name)
}

func (s *accessorySet) list() []Accessory {
	out := make([]Accessory, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Accessory{Name: name, Note: s.notes[name]})
	}
	return out
}

// Recommend maps a weather reading to an outfit and accessory set.
func Recommend(c Conditions) Recommendation {
	band := SelectBand(c.TempC)
	accessories := newAccessorySet()
	var advisories []string

	if c.UVIndex >= 3 {
		accessories.add("Sunscreen", noteUV)
	}
	if c.UVIndex >= 6 {
		accessories.add("Hat", noteMiddayHat)
		accessories.add("Parasol", noteMiddayShade)
		accessories.add("Sunglasses", noteMiddayGlass)
	}
	// Never overrides the >= 6 notes above since those names are already taken.
	if c.UVIndex >= 10 {
		accessories.add("Hat", noteAvoidMidday)
		accessories.add("Parasol", noteAvoidMidday)
		accessories.add("Sunglasses", noteAvoidMidday)
	}
	if c.PrecipitationProbability >= 50 || c.PrecipitationMm >= 0.2 {
		accessories.add("Umbrella", noteRain)
	}
	if c.TempC <= 8 {
		accessories.add("Scarf", noteCold)
		accessories.add("Gloves", noteCold)
	}
	if c.Humidity >= 80 && c.TempC >= 23 {
		advisories = append(advisories, noteHumid)
	}
	if atLeast(c.PM25, 35) || atLeast(c.PM10, 80) || atLeast(c.AirQualityIndex, 80) {
		accessories.add("Mask", noteAirQuality)
	}
	if atLeast(c.TemperatureRange, 10) {
		accessories.add("Muffler", noteDiurnal)
	}

	var shared *string
	if len(advisories) > 0 {
		joined := strings.Join(advisories, " ")
		shared = &joined
	}

	items := make([]Item, 0, len(band.BaseItems))
	for _, name := range band.BaseItems {
		items = append(items, Item{Name: name, Note: copyNote(shared)})
	}

	return Recommendation{
		OutfitLabel: band.Label,
		ImageRef:    band.ImageRef,
		Items:       items,
		Accessories: accessories.list(),
	}
}

// PrependNote puts note in front of the first item's note.
func (r *Recommendation) PrependNote(note string) {
	if len(r.Items) == 0 || note == "" {
		return
	}
	first := &r.Items[0]
	merged := note
	if first.Note != nil && *first.Note != "" {
		merged = note + " " + *first.Note
	}
	first.Note = &merged
}

func atLeast(value *float64, threshold float64) bool {
	return value != nil && *value >= threshold
}

func copyNote(note *string) *string {
	if note == nil {
		return nil
	}
	v := *note
	return &v
}
