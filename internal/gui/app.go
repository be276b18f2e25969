// Package gui implements the desktop interface. It lets the user fetch
// study sets by URL, browse and edit the fetched cards, generate
// pronunciation audio and export Anki decks without touching the
// command line.
package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/quizanki/internal"
	"codeberg.org/snonux/quizanki/internal/anki"
	"codeberg.org/snonux/quizanki/internal/quizlet"
)

// Application represents the GUI application
type Application struct {
	app    fyne.App
	window fyne.Window
	config *Config

	client *quizlet.Client
	queue  *FetchQueue

	// Input section
	urlInput    *CustomEntry
	fetchButton *ttwidget.Button

	// Card browser
	setTitleLabel *widget.Label
	positionLabel *widget.Label
	frontEntry    *CustomMultiLineEntry
	backEntry     *CustomMultiLineEntry
	prevCardBtn   *ttwidget.Button
	nextCardBtn   *ttwidget.Button
	audioBtn      *ttwidget.Button
	deleteCardBtn *ttwidget.Button
	imageDisplay  *ImageDisplay
	audioPlayer   *AudioPlayer

	// Status section
	statusLabel      *widget.Label
	queueStatusLabel *widget.Label
	logViewer        *LogViewer

	// State
	mu              sync.Mutex
	currentSet      *quizlet.StudySet
	currentSetDir   string
	cardIndex       int
	currentJobID    int
	processingCount int
	suppressEdits   bool
	editSaveTimer   *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds GUI application configuration
type Config struct {
	OutputDir     string
	DeckName      string
	AnkiCSV       bool
	AudioProvider string
	AudioFormat   string
	Voice         string
	ImageProvider string
	SearchImages  bool
	OpenAIKey     string
	GeminiKey     string
	PixabayKey    string
	UnsplashKey   string
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	// Use XDG Base Directory specification for state data
	outputDir := filepath.Join(homeDir, ".local", "state", "quizanki", "sets")

	return &Config{
		OutputDir:     outputDir,
		AudioProvider: "auto",
		AudioFormat:   "mp3",
		ImageProvider: "pixabay",
	}
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config == nil {
		config = DefaultConfig()
	} else {
		// Fill in missing fields with defaults
		defaults := DefaultConfig()
		if config.OutputDir == "" {
			config.OutputDir = defaults.OutputDir
		}
		if config.AudioProvider == "" {
			config.AudioProvider = defaults.AudioProvider
		}
		if config.AudioFormat == "" {
			config.AudioFormat = defaults.AudioFormat
		}
		if config.ImageProvider == "" {
			config.ImageProvider = defaults.ImageProvider
		}
	}

	// Ensure output directory exists
	os.MkdirAll(config.OutputDir, 0755)

	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.codeberg.snonux.quizanki")
	myApp.SetIcon(GetAppIcon())

	app := &Application{
		app:    myApp,
		config: config,
		client: quizlet.NewClient(quizlet.DefaultConfig()),
		ctx:    ctx,
		cancel: cancel,
	}

	// Initialize the fetch queue
	app.queue = NewFetchQueue(ctx)
	app.queue.SetCallbacks(app.onQueueStatusUpdate, app.onJobComplete)

	// Capture process output so the log window shows fetch progress
	app.logViewer = NewLogViewer()
	app.logViewer.StartCapture()

	app.setupUI()

	// Show the most recently fetched set, if any
	app.scanExistingSets()

	// Update initial queue status
	app.updateQueueStatus()

	return app
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("quizanki v%s - Quizlet to Anki Converter", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(900, 700))

	// Create the URL input section
	a.urlInput = NewCustomEntry()
	a.urlInput.SetPlaceHolder("https://quizlet.com/123456/set-title/ ... Press Enter to fetch")
	a.urlInput.OnSubmitted = func(string) {
		a.onFetch()
		a.window.Canvas().Unfocus()
	}
	a.urlInput.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	a.fetchButton = ttwidget.NewButton("", a.onFetch)
	a.fetchButton.Icon = theme.DownloadIcon()

	inputSection := container.NewBorder(
		nil, nil,
		widget.NewLabel("Set URL:"),
		a.fetchButton,
		a.urlInput,
	)

	// Create the card browser
	a.setTitleLabel = widget.NewLabel("No set loaded")
	a.setTitleLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.positionLabel = widget.NewLabel("No cards")

	a.frontEntry = NewCustomMultiLineEntry()
	a.frontEntry.SetPlaceHolder("Front (term)...")
	a.frontEntry.Wrapping = fyne.TextWrapWord
	a.frontEntry.OnChanged = a.onFrontChanged
	a.frontEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})
	a.frontEntry.SetOnTab(func() {
		a.window.Canvas().Focus(a.backEntry)
	})

	a.backEntry = NewCustomMultiLineEntry()
	a.backEntry.SetPlaceHolder("Back (definition)...")
	a.backEntry.Wrapping = fyne.TextWrapWord
	a.backEntry.OnChanged = a.onBackChanged
	a.backEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})
	a.backEntry.SetOnTab(func() {
		a.window.Canvas().Focus(a.frontEntry)
	})

	frontContainer := container.NewBorder(
		widget.NewLabel("Front:"),
		nil, nil, nil,
		container.NewScroll(a.frontEntry),
	)
	backContainer := container.NewBorder(
		widget.NewLabel("Back:"),
		nil, nil, nil,
		container.NewScroll(a.backEntry),
	)

	editorGrid := container.New(layout.NewGridLayout(2),
		frontContainer,
		backContainer,
	)

	// Create display section
	a.imageDisplay = NewImageDisplay()
	a.audioPlayer = NewAudioPlayer()

	// Split editor and image, editor gets the larger share
	cardSection := container.NewHSplit(
		editorGrid,
		a.imageDisplay,
	)
	cardSection.SetOffset(0.65)

	cardHeader := container.NewHBox(
		a.setTitleLabel,
		layout.NewSpacer(),
		a.positionLabel,
	)

	displaySection := container.NewBorder(
		cardHeader,
		a.audioPlayer,
		nil, nil,
		cardSection,
	)

	// Create navigation and action buttons (tooltips are set after the
	// tooltip layer is created)
	a.prevCardBtn = ttwidget.NewButton("", a.onPrevCard)
	a.prevCardBtn.Icon = theme.NavigateBackIcon()

	a.nextCardBtn = ttwidget.NewButton("", a.onNextCard)
	a.nextCardBtn.Icon = theme.NavigateNextIcon()

	a.audioBtn = ttwidget.NewButtonWithIcon("", theme.MediaRecordIcon(), a.onGenerateAudio)

	a.deleteCardBtn = ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), a.onDeleteCard)
	a.deleteCardBtn.Importance = widget.DangerImportance

	// Nothing is loaded until the first set arrives
	a.setCardButtonsEnabled(false)

	exportButton := ttwidget.NewButtonWithIcon("", theme.UploadIcon(), a.onExport)
	logButton := ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onShowLog)
	helpButton := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowAbout)

	toolbar := container.NewHBox(
		a.prevCardBtn,
		a.nextCardBtn,
		widget.NewSeparator(),
		a.audioBtn,
		a.deleteCardBtn,
		widget.NewSeparator(),
		exportButton,
		logButton,
		helpButton,
	)

	// Create status section
	a.statusLabel = widget.NewLabel("Ready")
	a.queueStatusLabel = widget.NewLabel("Queue: Empty")
	a.queueStatusLabel.TextStyle = fyne.TextStyle{Italic: true}

	statusSection := container.NewVBox(
		a.statusLabel,
		widget.NewSeparator(),
		a.queueStatusLabel,
	)

	// Combine all sections with the toolbar at the top
	content := container.NewBorder(
		container.NewVBox(
			toolbar,
			widget.NewSeparator(),
			inputSection,
		),
		statusSection,
		nil, nil,
		displaySection,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	// Now that the tooltip layer exists, set all tooltips
	a.setupTooltips()

	exportButton.SetToolTip("Export deck (x)")
	logButton.SetToolTip("Show activity log (l)")
	helpButton.SetToolTip("About and shortcuts (h)")

	a.window.SetOnClosed(func() {
		if a.editSaveTimer != nil {
			a.editSaveTimer.Stop()
		}
		a.saveCurrentSet()
		a.logViewer.StopCapture()
		a.cancel()
		a.queue.Stop()
		a.wg.Wait()
	})

	a.setupKeyboardShortcuts()
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// onFetch queues the entered set URL for fetching
func (a *Application) onFetch() {
	setURL := strings.TrimSpace(a.urlInput.Text)
	if setURL == "" {
		a.updateStatus("Enter a set URL first")
		return
	}

	job := a.queue.AddURL(setURL)
	if job.Status == StatusFailed {
		a.showError(job.Error)
		return
	}

	a.updateStatus(fmt.Sprintf("Queued: %s", setURL))
	a.updateQueueStatus()
	a.processNextInQueue()
}

// processNextInQueue pulls the next fetch job, one at a time
func (a *Application) processNextInQueue() {
	a.mu.Lock()
	busy := a.currentJobID != 0
	a.mu.Unlock()
	if busy {
		return
	}

	job := a.queue.ProcessNextJob()
	if job == nil {
		return
	}

	a.mu.Lock()
	a.currentJobID = job.ID
	a.mu.Unlock()

	fyne.Do(func() {
		a.showProgress("Fetching: " + job.URL)
		a.updateQueueStatus()
	})

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.processFetchJob(job)
	}()
}

// processFetchJob runs a single fetch job in the background
func (a *Application) processFetchJob(job *FetchJob) {
	fmt.Printf("\nProcessing set: %s\n", job.URL)

	set, setDir, err := a.fetchSet(a.ctx, job.URL)
	if err != nil {
		a.queue.FailJob(job.ID, err)
		a.finishCurrentJob()
		return
	}

	fmt.Printf("  Title: %s (%d terms)\n", set.Title, len(set.Terms))
	if set.SkippedRows > 0 {
		fmt.Printf("  Warning: skipped %d malformed rows\n", set.SkippedRows)
	}

	a.queue.CompleteJob(job.ID, set, setDir)
	a.finishCurrentJob()
}

// finishCurrentJob clears the current job and pulls the next one
func (a *Application) finishCurrentJob() {
	a.mu.Lock()
	a.currentJobID = 0
	a.mu.Unlock()

	fyne.Do(func() {
		a.processNextInQueue()
	})
}

// onQueueStatusUpdate handles queue status updates
func (a *Application) onQueueStatusUpdate(job *FetchJob) {
	fyne.Do(func() {
		a.updateQueueStatus()
	})
}

// onJobComplete handles fetch job completion
func (a *Application) onJobComplete(job *FetchJob) {
	fyne.Do(func() {
		a.updateQueueStatus()

		if job.Status == StatusFailed {
			a.showError(fmt.Errorf("fetch failed: %w", job.Error))
			a.hideProgress()
			return
		}

		// Show the freshly fetched set in the browser
		a.loadSet(job.Set, job.SetDir)
		a.hideProgress()
		a.updateStatus(fmt.Sprintf("Fetched %q (%d terms)", job.Set.Title, len(job.Set.Terms)))
	})
}

// updateQueueStatus updates the queue status label
func (a *Application) updateQueueStatus() {
	queued, processing, completed, failed := a.queue.GetQueueStatus()

	if queued == 0 && processing == 0 && completed == 0 && failed == 0 {
		a.queueStatusLabel.SetText("Queue: Empty")
		return
	}

	status := fmt.Sprintf("Queue: %d waiting | %d fetching | %d done", queued, processing, completed)
	if failed > 0 {
		status += fmt.Sprintf(" | %d failed", failed)
	}
	a.queueStatusLabel.SetText(status)
}

// onFrontChanged stores an edit of the card front
func (a *Application) onFrontChanged(text string) {
	if a.suppressEdits {
		return
	}

	a.mu.Lock()
	set := a.currentSet
	if set != nil && a.cardIndex < len(set.Terms) {
		set.Terms[a.cardIndex].Front = text
	}
	a.mu.Unlock()

	a.scheduleSaveEdits()
}

// onBackChanged stores an edit of the card back
func (a *Application) onBackChanged(text string) {
	if a.suppressEdits {
		return
	}

	a.mu.Lock()
	set := a.currentSet
	if set != nil && a.cardIndex < len(set.Terms) {
		set.Terms[a.cardIndex].Back = text
	}
	a.mu.Unlock()

	a.scheduleSaveEdits()
}

// scheduleSaveEdits saves the set once the user stops typing
func (a *Application) scheduleSaveEdits() {
	if a.editSaveTimer != nil {
		a.editSaveTimer.Stop()
	}
	a.editSaveTimer = time.AfterFunc(1*time.Second, func() {
		if err := a.saveCurrentSet(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save edits: %v\n", err)
		}
	})
}

// onGenerateAudio synthesizes audio for the card shown in the browser
func (a *Application) onGenerateAudio() {
	a.mu.Lock()
	set := a.currentSet
	index := a.cardIndex
	a.mu.Unlock()

	if set == nil || index >= len(set.Terms) {
		return
	}

	a.audioBtn.Disable()
	a.updateStatus(fmt.Sprintf("Generating audio for card %d...", index+1))
	a.incrementProcessing()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		audioFile, err := a.generateCardAudio(a.ctx, index)
		a.decrementProcessing()

		fyne.Do(func() {
			a.audioBtn.Enable()
			if err != nil {
				a.showError(fmt.Errorf("audio generation failed: %w", err))
				return
			}
			// Only update the player when the user is still on this card
			if a.cardIndex == index {
				a.audioPlayer.SetAudioFile(audioFile)
			}
			a.updateStatus(fmt.Sprintf("Audio ready: %s", filepath.Base(audioFile)))
		})
	}()
}

// onExport shows the deck export dialog
func (a *Application) onExport() {
	a.mu.Lock()
	set := a.currentSet
	a.mu.Unlock()

	if set == nil {
		dialog.ShowInformation("No Set", "Fetch a study set first!", a.window)
		return
	}
	if len(set.Terms) == 0 {
		dialog.ShowInformation("No Cards", "The loaded set has no cards to export.", a.window)
		return
	}

	// Create format selection dialog
	formatOptions := []string{"APKG (Recommended)", "CSV"}
	formatSelect := widget.NewSelect(formatOptions, nil)
	if a.config.AnkiCSV {
		formatSelect.SetSelected(formatOptions[1])
	} else {
		formatSelect.SetSelected(formatOptions[0])
	}

	deckNameEntry := widget.NewEntry()
	deckNameEntry.SetPlaceHolder("Quizlet Import")
	if a.config.DeckName != "" {
		deckNameEntry.SetText(a.config.DeckName)
	} else if set.Title != "" {
		deckNameEntry.SetText(set.Title)
	}

	// Export directory selection
	homeDir, _ := os.UserHomeDir()
	selectedDir := filepath.Join(homeDir, "Downloads")

	dirLabel := widget.NewLabel(selectedDir)

	dirButton := widget.NewButton("Browse...", func() {
		folderDialog := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
			if err != nil || dir == nil {
				return
			}
			selectedDir = dir.Path()
			dirLabel.SetText(selectedDir)
		}, a.window)

		// Try to set initial directory
		if uri, err := storage.ParseURI("file://" + selectedDir); err == nil {
			if listableURI, ok := uri.(fyne.ListableURI); ok {
				folderDialog.SetLocation(listableURI)
			}
		}

		folderDialog.Show()
	})

	dirContainer := container.NewBorder(nil, nil, nil, dirButton, dirLabel)

	content := container.NewVBox(
		widget.NewLabel("Export Format:"),
		formatSelect,
		widget.NewSeparator(),
		widget.NewLabel("Deck Name:"),
		deckNameEntry,
		widget.NewSeparator(),
		widget.NewLabel("Export Directory:"),
		dirContainer,
		widget.NewLabel(""),
		widget.NewRichTextFromMarkdown("**APKG**: Complete package with media files included\n**CSV**: Text only, media referenced by filename"),
	)

	exportDialogOpen := true

	customDialog := dialog.NewCustomConfirm("Export Deck", "Export (e)", "Cancel (c)", content, func(export bool) {
		exportDialogOpen = false
		if !export {
			return
		}

		isAPKG := formatSelect.Selected == formatOptions[0]
		a.exportDeck(isAPKG, deckNameEntry.Text, selectedDir)
	}, a.window)

	// Dialog-local shortcuts, restored when the dialog closes
	originalRuneHandler := a.window.Canvas().OnTypedRune()

	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if exportDialogOpen {
			switch r {
			case 'e', 'E':
				customDialog.Hide()
				exportDialogOpen = false
				customDialog.Confirm()
			case 'c', 'C':
				customDialog.Hide()
				exportDialogOpen = false
			}
			return
		}
		if originalRuneHandler != nil {
			originalRuneHandler(r)
		}
	})

	customDialog.SetOnClosed(func() {
		exportDialogOpen = false
		a.window.Canvas().SetOnTypedRune(originalRuneHandler)
	})

	customDialog.Resize(fyne.NewSize(420, 320))
	customDialog.Show()
}

// exportDeck writes the loaded set as .apkg or CSV, the same path the
// CLI export takes
func (a *Application) exportDeck(isAPKG bool, deckName, exportDir string) {
	// Flush pending edits so the exporter sees them
	if a.editSaveTimer != nil {
		a.editSaveTimer.Stop()
	}
	if err := a.saveCurrentSet(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save set: %w", err), a.window)
		return
	}

	a.mu.Lock()
	setDir := a.currentSetDir
	a.mu.Unlock()

	options := &anki.GeneratorOptions{
		MediaFolder:    filepath.Join(setDir, internal.MediaDirName),
		IncludeHeaders: true,
		AudioFormat:    a.config.AudioFormat,
	}
	gen := anki.NewGenerator(options)

	set, err := gen.GenerateFromSetDirectory(setDir)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load cards: %w", err), a.window)
		return
	}

	if deckName == "" {
		deckName = set.Title
	}
	if deckName == "" {
		deckName = "Quizlet Import"
	}

	var outputPath string
	if isAPKG {
		outputPath = filepath.Join(exportDir, internal.SanitizeFilename(deckName)+".apkg")
		if err := gen.GenerateAPKG(outputPath, deckName, set.ID); err != nil {
			dialog.ShowError(fmt.Errorf("failed to generate APKG: %w", err), a.window)
			return
		}
	} else {
		outputPath = filepath.Join(exportDir, internal.SanitizeFilename(deckName)+".csv")
		options.OutputPath = outputPath
		if err := gen.GenerateCSV(); err != nil {
			dialog.ShowError(fmt.Errorf("failed to generate CSV: %w", err), a.window)
			return
		}
	}

	total, withAudio, withImages := gen.Stats()
	a.updateStatus(fmt.Sprintf("Exported %d cards to %s (%d with audio, %d with images)",
		total, outputPath, withAudio, withImages))
}

// onShowLog opens the activity log window
func (a *Application) onShowLog() {
	a.logViewer.ShowWindow(a.app)
}

// onShowAbout displays the about dialog with all keyboard shortcuts
func (a *Application) onShowAbout() {
	about := fmt.Sprintf(`# quizanki v%s

Converts public Quizlet study sets into Anki decks.

[Project Page: https://codeberg.org/snonux/quizanki](https://codeberg.org/snonux/quizanki)

---

## Navigation
**←** Previous card
**→** Next card
**Tab** Navigate fields
**Esc** Unfocus field

## Focus Fields
**u** Focus set URL
**f** Focus card front
**b** Focus card back

## Actions
**g** Fetch set
**a** Generate audio
**p** Play audio
**d** Remove card

## Export
**x** Export deck

## Help
**l** Show activity log
**h** Show this dialog
**c** Close dialog
**q** Quit application

---

Press **c** to close this dialog`, internal.Version)

	content := widget.NewRichTextFromMarkdown(about)
	content.Wrapping = fyne.TextWrapWord

	paddedContent := container.NewPadded(content)

	scroll := container.NewScroll(paddedContent)
	scroll.SetMinSize(fyne.NewSize(600, 480))

	d := dialog.NewCustom("About quizanki", "Close", scroll, a.window)

	dialogOpen := true

	originalRuneHandler := a.window.Canvas().OnTypedRune()

	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if dialogOpen && (r == 'c' || r == 'C') {
			d.Hide()
			return
		}
		if originalRuneHandler != nil {
			originalRuneHandler(r)
		}
	})

	d.Show()

	d.SetOnClosed(func() {
		dialogOpen = false
		// Restore the regular keyboard shortcuts
		a.setupKeyboardShortcuts()
	})
}

// Helper methods

func (a *Application) setCardButtonsEnabled(enabled bool) {
	if enabled {
		a.audioBtn.Enable()
		a.deleteCardBtn.Enable()
	} else {
		a.audioBtn.Disable()
		a.deleteCardBtn.Disable()
	}
}

func (a *Application) showProgress(message string) {
	a.mu.Lock()
	processingCount := a.processingCount
	a.mu.Unlock()

	if processingCount > 1 {
		a.statusLabel.SetText(fmt.Sprintf("%s (Processing: %d tasks)", message, processingCount))
	} else {
		a.statusLabel.SetText(message)
	}
}

func (a *Application) hideProgress() {
	a.mu.Lock()
	processingCount := a.processingCount
	a.mu.Unlock()

	if processingCount > 0 {
		a.updateStatus(fmt.Sprintf("Processing %d task(s)...", processingCount))
	} else {
		a.updateStatus("Ready")
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

// clearCardUI empties the card browser widgets
func (a *Application) clearCardUI() {
	a.suppressEdits = true
	a.frontEntry.SetText("")
	a.backEntry.SetText("")
	a.suppressEdits = false
	a.imageDisplay.Clear()
	a.audioPlayer.Clear()
}

// incrementProcessing increments the processing count and updates the status
func (a *Application) incrementProcessing() {
	a.mu.Lock()
	a.processingCount++
	a.mu.Unlock()

	fyne.Do(func() {
		a.updateQueueStatus()
	})
}

// decrementProcessing decrements the processing count and updates the status
func (a *Application) decrementProcessing() {
	a.mu.Lock()
	if a.processingCount > 0 {
		a.processingCount--
	}
	a.mu.Unlock()

	fyne.Do(func() {
		a.updateQueueStatus()
	})
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.fetchButton.SetToolTip("Fetch set (g)")
	a.prevCardBtn.SetToolTip("Previous card (←)")
	a.nextCardBtn.SetToolTip("Next card (→)")
	a.audioBtn.SetToolTip("Generate audio (a)")
	a.deleteCardBtn.SetToolTip("Remove card (d)")
}

// setupKeyboardShortcuts sets up keyboard shortcuts for the application
func (a *Application) setupKeyboardShortcuts() {
	// Handle character input for focus shortcuts that shouldn't type the
	// character into the newly focused field
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if a.isInputFocused() {
			return
		}

		switch r {
		case 'u', 'U':
			a.window.Canvas().Focus(a.urlInput)
		case 'f', 'F':
			a.window.Canvas().Focus(a.frontEntry)
		case 'b', 'B':
			a.window.Canvas().Focus(a.backEntry)
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		// Escape unfocuses any field
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			return
		}

		// Tab cycles through the input fields
		if ev.Name == fyne.KeyTab {
			a.handleTabNavigation()
			return
		}

		if a.isInputFocused() {
			return
		}

		// Focus keys are handled in SetOnTypedRune
		if ev.Name == fyne.KeyU || ev.Name == fyne.KeyF || ev.Name == fyne.KeyB {
			return
		}

		a.handleShortcutKey(ev.Name)
	})
}

// isInputFocused reports whether one of the text fields has focus
func (a *Application) isInputFocused() bool {
	focused := a.window.Canvas().Focused()
	return focused == a.urlInput || focused == a.frontEntry || focused == a.backEntry
}

// handleTabNavigation manages custom Tab navigation order
func (a *Application) handleTabNavigation() {
	focused := a.window.Canvas().Focused()

	switch focused {
	case a.urlInput:
		a.window.Canvas().Focus(a.frontEntry)
	case a.frontEntry:
		a.window.Canvas().Focus(a.backEntry)
	case a.backEntry:
		a.window.Canvas().Focus(a.urlInput)
	default:
		a.window.Canvas().Focus(a.urlInput)
	}
}

// handleShortcutKey handles the actual shortcut action
func (a *Application) handleShortcutKey(key fyne.KeyName) {
	switch key {
	case fyne.KeyG: // Fetch
		if a.fetchButton.Disabled() {
			return
		}
		a.onFetch()

	case fyne.KeyLeft: // Previous card
		if a.prevCardBtn.Disabled() {
			return
		}
		a.onPrevCard()

	case fyne.KeyRight: // Next card
		if a.nextCardBtn.Disabled() {
			return
		}
		a.onNextCard()

	case fyne.KeyA: // Generate audio
		if a.audioBtn.Disabled() {
			return
		}
		a.onGenerateAudio()

	case fyne.KeyP: // Play audio
		a.audioPlayer.Play()

	case fyne.KeyD: // Remove card
		if a.deleteCardBtn.Disabled() {
			return
		}
		a.onDeleteCard()

	case fyne.KeyX: // Export deck
		a.onExport()

	case fyne.KeyL: // Show activity log
		a.onShowLog()

	case fyne.KeyH: // Show about dialog
		a.onShowAbout()

	case fyne.KeyQ: // Quit application
		a.window.Close()
	}
}
