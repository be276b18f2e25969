package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/quizanki/internal/archive"
	"codeberg.org/snonux/quizanki/internal/audio"
	"codeberg.org/snonux/quizanki/internal/cli"
	"codeberg.org/snonux/quizanki/internal/models"
	"codeberg.org/snonux/quizanki/internal/phonetic"
	"codeberg.org/snonux/quizanki/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(args []string, flags *cli.Flags) error {
	// Handle --archive flag
	if flags.Archive {
		if err := archive.ArchiveSets(flags.OutputDir); err != nil {
			return fmt.Errorf("failed to archive sets: %w", err)
		}
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		lister.MarkDefaults(audio.DefaultProviderConfig().OpenAIModel, phonetic.Model)
		return lister.ListAvailableModels()
	}

	// Create processor
	proc := processor.NewProcessor(flags)

	// Handle --history flag
	if flags.History {
		return proc.ShowHistory()
	}

	// An explicit --gui wins over batch and URL input
	if flags.GUIMode {
		return proc.RunGUIMode()
	}

	switch {
	case flags.Watch:
		// Watch mode blocks until interrupted
		return proc.RunWatchMode()

	case flags.BatchFile != "":
		if err := proc.ProcessBatch(); err != nil {
			return err
		}

	case len(args) > 0:
		if err := proc.ProcessSet(args[0], ""); err != nil {
			return err
		}

	case flags.GenerateAnki:
		// Re-export previously fetched sets without refetching
		fmt.Printf("Regenerating deck files...\n")
		outputs, err := proc.GenerateAnkiFile()
		if err != nil {
			return err
		}
		fmt.Printf("\nRegenerated %d deck(s)\n", len(outputs))

	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}

	fmt.Printf("\nDone! Sets saved to: %s\n", flags.OutputDir)
	return nil
}
