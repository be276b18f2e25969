package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const archiveDirName = "archive"

// ArchiveSets moves all set directories from the output directory into a
// timestamped folder under archive/. Files at the top level, such as the
// import history database and exported decks, stay in place, as do
// hidden directories like the audio cache.
func ArchiveSets(outputDir string) error {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		return fmt.Errorf("output directory does not exist: %s", outputDir)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	var setDirs []string
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() != archiveDirName && !strings.HasPrefix(entry.Name(), ".") {
			setDirs = append(setDirs, entry.Name())
		}
	}

	if len(setDirs) == 0 {
		return fmt.Errorf("no set directories to archive in: %s", outputDir)
	}

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(outputDir, archiveDirName, fmt.Sprintf("sets-%s", timestamp))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(outputDir, archiveDirName, fmt.Sprintf("sets-%s", timestamp))
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, name := range setDirs {
		src := filepath.Join(outputDir, name)
		dst := filepath.Join(archivePath, name)
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	fmt.Printf("Archived %d set directories to: %s\n", len(setDirs), archivePath)
	return nil
}
