package domain

// Personality types, in decision-table priority order.
const (
	PersonalityExplorer   = "Music Explorer"
	PersonalityMainstream = "Mainstream Lover"
	PersonalityBalanced   = "Balanced Listener"
	PersonalityNiche      = "Niche Enthusiast"
)

// Time-of-day bands used for MostActiveTimeOfDay.
const (
	TimeOfDayMorning   = "Morning"
	TimeOfDayAfternoon = "Afternoon"
	TimeOfDayEvening   = "Evening"
	TimeOfDayNight     = "Night"
	TimeOfDayUnknown   = "Unknown"
)

// HourCount is a ranked hour-of-day bucket.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DayCount is a ranked weekday bucket.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ListeningPatternReport summarises a recently-played history.
//
// SkipRate and ListeningStreak are not derived from the history; they are
// named in PlaceholderFields so consumers can tell them apart.
type ListeningPatternReport struct {
	PeakHours            []HourCount `json:"peakHours"`
	PeakDays             []DayCount  `json:"peakDays"`
	TotalPlays           int         `json:"totalPlays"`
	UniqueTracks         int         `json:"uniqueTracks"`
	RepeatRate           int         `json:"repeatRate"`
	DiscoveryRate        int         `json:"discoveryRate"`
	TotalListeningTime   int         `json:"totalListeningTime"`
	AverageSessionLength int         `json:"averageSessionLength"`
	MostActiveTimeOfDay  string      `json:"mostActiveTimeOfDay"`
	ListeningConsistency int         `json:"listeningConsistency"`
	SkipRate             int         `json:"skipRate"`
	ListeningStreak      int         `json:"listeningStreak"`
	PlaceholderFields    []string    `json:"placeholderFields"`
}

// PersonalityScore bundles the numeric inputs and outputs of the classifier.
type PersonalityScore struct {
	Diversity  int `json:"diversity"`
	Mainstream int `json:"mainstream"`
	Energy     int `json:"energy"`
	Mood       int `json:"mood"`
}

// PersonalityReport is the outcome of the music-personality classifier.
type PersonalityReport struct {
	Type              string           `json:"type"`
	Traits            []string         `json:"traits"`
	Description       string           `json:"description"`
	Score             PersonalityScore `json:"score"`
	Recommendations   []string         `json:"recommendations"`
	PlaceholderFields []string         `json:"placeholderFields"`
}

// FeatureAverages holds 0-100 scaled means, except Tempo which is in BPM.
type FeatureAverages struct {
	Danceability int `json:"danceability"`
	Energy       int `json:"energy"`
	Valence      int `json:"valence"`
	Tempo        int `json:"tempo"`
}

// FeatureBands counts tracks per low/medium/high band of a 0-1 feature.
type FeatureBands struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// AudioFeatureReport summarises the audio features of a track set.
type AudioFeatureReport struct {
	Average        FeatureAverages         `json:"average"`
	Distribution   map[string]FeatureBands `json:"distribution"`
	Insights       []string                `json:"insights"`
	TracksAnalyzed int                     `json:"tracksAnalyzed"`
}
