package config

const (
	// Complaint identifiers
	DefaultIDPrefix = "SMG"
	SequenceWidth   = 4

	// Lists
	NotificationListLimit = 50

	// Profiles
	UnknownUserName = "Unknown User"
	DefaultLanguage = "en"
)

// PriorityWeights orders urgency levels; higher is more urgent.
var PriorityWeights = map[string]int{
	"Low":      5,
	"Medium":   50,
	"High":     150,
	"Critical": 250,
}
