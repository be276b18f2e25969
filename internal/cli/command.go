package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/quizanki/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quizanki [set-url]",
		Short: "Quizlet to Anki Importer",
		Long: `quizanki downloads Quizlet study sets and converts them into
Anki-importable decks (.apkg or CSV).

It scrapes the public set page directly, so no Quizlet API access is
needed. Optional enrichment adds pronunciation audio, IPA phonetics
and stock images to the cards.

Examples:
  quizanki                                      # Launch interactive GUI (default)
  quizanki https://quizlet.com/12345/biology/   # Import one set via CLI
  quizanki --batch sets.txt --audio             # Process multiple sets from file
  quizanki --anki --anki-csv                    # Re-export fetched sets as CSV`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Set default output directory to match GUI mode
	home, _ := os.UserHomeDir()
	defaultOutputDir := filepath.Join(home, ".local", "state", "quizanki", "sets")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.quizanki.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Output directory")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process set URLs from file (one per line, 'url = Deck Name' to override)")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Deck name for the export (default: the set title)")
	cmd.Flags().BoolVar(&flags.GenerateAnki, "anki", false, "Rebuild deck files from previously fetched sets, without refetching")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate legacy CSV format instead of APKG")
	cmd.Flags().BoolVar(&flags.History, "history", false, "Show previously imported sets and exit")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive current set directories and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.GUIMode, "gui", false, "Launch the graphical interface (default with no arguments)")

	// Watch mode
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "Keep running and re-process the batch file on a schedule")
	cmd.Flags().StringVar(&flags.WatchSchedule, "watch-schedule", flags.WatchSchedule, "Cron schedule for watch mode (e.g. '@midnight', '@every 6h')")

	// Audio enrichment
	cmd.Flags().BoolVar(&flags.Audio, "audio", false, "Synthesize pronunciation audio for each card front")
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "TTS provider: openai, gemini, espeak or auto")
	cmd.Flags().StringVarP(&flags.AudioFormat, "audio-format", "f", flags.AudioFormat, "Audio format (mp3 or wav)")
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "TTS voice (provider specific, e.g. alloy, nova, Kore)")
	cmd.Flags().Float64Var(&flags.Speed, "speed", flags.Speed, "Speech speed (0.25 to 4.0, OpenAI only)")
	cmd.Flags().StringVar(&flags.Instruction, "instruction", "", "Voice instructions for gpt-4o-mini-tts (e.g. 'speak slowly and clearly')")

	// Other enrichment
	cmd.Flags().BoolVar(&flags.Phonetic, "phonetic", false, "Fetch IPA transcriptions for card fronts via OpenAI")
	cmd.Flags().BoolVar(&flags.SearchImages, "search-images", false, "Search stock images for terms without a scraped image")
	cmd.Flags().StringVar(&flags.ImageAPI, "image-api", flags.ImageAPI, "Image search provider: pixabay or unsplash")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("audio.format", cmd.Flags().Lookup("audio-format"))
	viper.BindPFlag("audio.voice", cmd.Flags().Lookup("voice"))
	viper.BindPFlag("audio.speed", cmd.Flags().Lookup("speed"))
	viper.BindPFlag("audio.instruction", cmd.Flags().Lookup("instruction"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("image.provider", cmd.Flags().Lookup("image-api"))
	viper.BindPFlag("watch.schedule", cmd.Flags().Lookup("watch-schedule"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".quizanki" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".quizanki")
	}

	// Environment variables
	viper.SetEnvPrefix("QUIZANKI")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("audio.gemini_key")
}

// GetPixabayKey retrieves the Pixabay API key from environment or config
func GetPixabayKey() string {
	if key := os.Getenv("PIXABAY_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("image.pixabay_key")
}

// GetUnsplashKey retrieves the Unsplash access key from environment or config
func GetUnsplashKey() string {
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		return key
	}

	return viper.GetString("image.unsplash_key")
}
