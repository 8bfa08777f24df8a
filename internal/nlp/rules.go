package nlp

// DefaultRules is the routing table seeded into the departments table on a
// fresh install.
func DefaultRules() []Rule {
	return []Rule{
		{
			Department:     "Public Works",
			Code:           "PWD",
			Keywords:       []string{"road", "roads", "pothole", "potholes", "bridge", "footpath", "pavement", "sidewalk", "traffic signal", "speed breaker", "construction", "manhole"},
			DefaultUrgency: UrgencyHigh,
		},
		{
			Department:     "Water Supply",
			Code:           "WSD",
			Keywords:       []string{"water", "leak", "leakage", "pipe", "pipeline", "tap", "sewage", "sewer", "drain", "drainage", "water supply", "contaminated"},
			DefaultUrgency: UrgencyHigh,
		},
		{
			Department:     "Electricity",
			Code:           "ELD",
			Keywords:       []string{"electric", "electricity", "power", "light", "lights", "streetlight", "street light", "outage", "transformer", "wire", "wires", "voltage", "meter"},
			DefaultUrgency: UrgencyMedium,
		},
		{
			Department:     "Environment",
			Code:           "ENV",
			Keywords:       []string{"garbage", "waste", "smell", "trash", "dump", "dumping", "litter", "pollution", "sanitation", "stench", "burning", "noise"},
			DefaultUrgency: UrgencyMedium,
		},
	}
}

var criticalTerms = []string{
	"fire", "collapse", "collapsed", "electrocution", "electrocuted", "gas leak",
	"emergency", "injured", "injury", "death", "flood", "flooding", "sparking",
}

var highUrgencyTerms = []string{
	"urgent", "urgently", "danger", "dangerous", "accident", "hazard", "unsafe",
	"no water", "no power", "broken", "blocked", "overflowing", "immediately",
}

var negativeTerms = []string{
	"bad", "broken", "dangerous", "dirty", "terrible", "worst", "poor", "angry",
	"frustrated", "not working", "no", "never", "complaint", "unsafe", "smell",
	"problem", "damaged", "leak", "overflowing",
}

var positiveTerms = []string{
	"thanks", "thank", "good", "great", "appreciate", "resolved", "clean",
	"happy", "excellent",
}
