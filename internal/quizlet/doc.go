// Package quizlet fetches Quizlet study-set pages and extracts their
// flashcards. Quizlet retired its public flashcard API, so the client
// scrapes the set page HTML instead: it downloads the page with a
// browser User-Agent, walks the term list markup and returns the
// term/definition pairs (plus any term images) as a StudySet.
package quizlet
