// Package processor contains the core import pipeline. It orchestrates
// study set fetching, media downloads, audio and phonetic enrichment,
// Anki deck generation and the import history. This package serves as
// the main coordinator between all other components.
package processor
