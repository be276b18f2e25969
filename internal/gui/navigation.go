package gui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/dialog"

	"codeberg.org/snonux/quizanki/internal"
	"codeberg.org/snonux/quizanki/internal/quizlet"
)

// scanExistingSets looks for previously fetched sets in the output
// directory and loads the most recently modified one into the browser
func (a *Application) scanExistingSets() {
	entries, err := os.ReadDir(a.config.OutputDir)
	if err != nil {
		// Directory doesn't exist yet, that's OK
		return
	}

	var newestDir string
	var newestMod int64

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == "archive" || strings.HasPrefix(name, ".") {
			continue
		}

		setFile := filepath.Join(a.config.OutputDir, name, internal.SetFileName)
		info, err := os.Stat(setFile)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newestDir == "" || mod > newestMod {
			newestDir = filepath.Join(a.config.OutputDir, name)
			newestMod = mod
		}
	}

	if newestDir == "" {
		return
	}

	if err := a.loadSetFromDir(newestDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", newestDir, err)
	}
}

// loadSetFromDir reads a saved set.json and shows its first card
func (a *Application) loadSetFromDir(setDir string) error {
	data, err := os.ReadFile(filepath.Join(setDir, internal.SetFileName))
	if err != nil {
		return fmt.Errorf("failed to read set file: %w", err)
	}

	var set quizlet.StudySet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to parse set file: %w", err)
	}

	a.loadSet(&set, setDir)
	return nil
}

// loadSet makes a study set the one shown in the card browser
func (a *Application) loadSet(set *quizlet.StudySet, setDir string) {
	a.mu.Lock()
	a.currentSet = set
	a.currentSetDir = setDir
	a.cardIndex = 0
	a.mu.Unlock()

	a.setTitleLabel.SetText(fmt.Sprintf("%s (%d terms)", set.Title, len(set.Terms)))
	a.urlInput.SetText(set.URL)

	if len(set.Terms) > 0 {
		a.showCard(0)
	} else {
		a.clearCardUI()
		a.updateNavigation()
	}
}

// updateNavigation updates the prev/next buttons and the position label
func (a *Application) updateNavigation() {
	set := a.currentSet
	if set == nil || len(set.Terms) == 0 {
		a.prevCardBtn.Disable()
		a.nextCardBtn.Disable()
		a.positionLabel.SetText("No cards")
		return
	}

	a.positionLabel.SetText(fmt.Sprintf("Card %d of %d", a.cardIndex+1, len(set.Terms)))

	if a.cardIndex > 0 {
		a.prevCardBtn.Enable()
	} else {
		a.prevCardBtn.Disable()
	}
	if a.cardIndex < len(set.Terms)-1 {
		a.nextCardBtn.Enable()
	} else {
		a.nextCardBtn.Disable()
	}
}

// onPrevCard shows the previous card
func (a *Application) onPrevCard() {
	if a.currentSet != nil && a.cardIndex > 0 {
		a.showCard(a.cardIndex - 1)
	}
}

// onNextCard shows the next card
func (a *Application) onNextCard() {
	if a.currentSet != nil && a.cardIndex < len(a.currentSet.Terms)-1 {
		a.showCard(a.cardIndex + 1)
	}
}

// showCard fills the browser with the card at the given index
func (a *Application) showCard(index int) {
	set := a.currentSet
	if set == nil || index < 0 || index >= len(set.Terms) {
		return
	}

	a.cardIndex = index
	term := set.Terms[index]

	// Programmatic SetText must not count as a user edit
	a.suppressEdits = true
	a.frontEntry.SetText(quizlet.PlainText(term.Front))
	a.backEntry.SetText(quizlet.PlainText(term.Back))
	a.suppressEdits = false

	a.loadCardMedia(index)
	a.updateNavigation()
	a.setCardButtonsEnabled(true)
}

// loadCardMedia shows the image and audio of the card at index, if any
func (a *Application) loadCardMedia(index int) {
	set := a.currentSet
	if set == nil || index >= len(set.Terms) {
		return
	}

	mediaDir := filepath.Join(a.currentSetDir, internal.MediaDirName)
	order := set.Terms[index].SortOrder

	if imageFile := findMediaFile(mediaDir, internal.MediaImagePrefix(order)); imageFile != "" {
		a.imageDisplay.SetImage(imageFile)
	} else {
		a.imageDisplay.Clear()
	}

	if audioFile := findMediaFile(mediaDir, internal.MediaAudioPrefix(order)); audioFile != "" {
		a.audioPlayer.SetAudioFile(audioFile)
	} else {
		a.audioPlayer.Clear()
	}
}

// findMediaFile returns the path of the first file in dir whose name
// starts with prefix, extension ignored
func findMediaFile(dir, prefix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// onDeleteCard removes the current card from the loaded set
func (a *Application) onDeleteCard() {
	set := a.currentSet
	if set == nil || a.cardIndex >= len(set.Terms) {
		return
	}

	front := quizlet.PlainText(set.Terms[a.cardIndex].Front)
	dialog.ShowConfirm("Remove Card",
		fmt.Sprintf("Remove '%s' from this set?", front),
		func(confirm bool) {
			if confirm {
				a.deleteCurrentCard()
			}
		}, a.window)
}

// deleteCurrentCard drops the current card and saves the set.
// Media files keep their sort order naming, so the remaining cards
// still find their image and audio.
func (a *Application) deleteCurrentCard() {
	set := a.currentSet
	if set == nil || a.cardIndex >= len(set.Terms) {
		return
	}

	set.Terms = append(set.Terms[:a.cardIndex], set.Terms[a.cardIndex+1:]...)

	if err := a.saveCurrentSet(); err != nil {
		a.showError(fmt.Errorf("failed to save set: %w", err))
		return
	}

	a.setTitleLabel.SetText(fmt.Sprintf("%s (%d terms)", set.Title, len(set.Terms)))

	if len(set.Terms) == 0 {
		a.clearCardUI()
		a.updateNavigation()
		a.setCardButtonsEnabled(false)
		a.updateStatus("Set is now empty")
		return
	}

	if a.cardIndex >= len(set.Terms) {
		a.cardIndex = len(set.Terms) - 1
	}
	a.showCard(a.cardIndex)
	a.updateStatus(fmt.Sprintf("Removed card, %d remaining", len(set.Terms)))
}
