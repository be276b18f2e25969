package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	OutputDir    string
	BatchFile    string
	DeckName     string
	GenerateAnki bool
	AnkiCSV      bool
	History      bool
	Archive      bool
	ListModels   bool
	GUIMode      bool

	// Watch mode
	Watch         bool
	WatchSchedule string

	// Audio enrichment
	Audio         bool
	AudioProvider string
	AudioFormat   string
	Voice         string
	Speed         float64
	Instruction   string

	// Other enrichment
	Phonetic     bool
	SearchImages bool
	ImageAPI     string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		AudioProvider: "auto",
		AudioFormat:   "mp3",
		Speed:         1.0,
		ImageAPI:      "pixabay",
		WatchSchedule: "@midnight",
	}
}
