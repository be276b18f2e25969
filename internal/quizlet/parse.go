package quizlet

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the set page markup. The term list mirrors what the
// page renders for each card: a small side holding the term and a large
// side holding the definition (and, for some sets, an image).
const (
	setDetailsSelector = "#setPageSetDetails"
	termListSelector   = "section.SetPageTerms-termsList"
	termRowSelector    = ".SetPageTerms-term"
	termContentSel     = ".SetPageTerm-content"
	smallSideSelector  = ".SetPageTerm-side.SetPageTerm-smallSide"
	largeSideSelector  = ".SetPageTerm-side.SetPageTerm-largeSide"
	frontSpanSelector  = "div > a > span"
	backSpanSelector   = "a.SetPageTerm-definitionText span"
	termImageSelector  = "img.SetPageTerm-image"
)

// ParseSetDocument extracts a StudySet from a parsed set page. Rows
// without a front side are counted in SkippedRows instead of producing
// blank cards. The caller fills in ID and Slug from the URL.
func ParseSetDocument(doc *goquery.Document, pageURL string) (*StudySet, error) {
	set := &StudySet{
		URL:         pageURL,
		Title:       pageTitle(doc),
		Description: pageDescription(doc),
	}

	list := doc.Find(termListSelector)
	if list.Length() == 0 {
		if doc.Find(setDetailsSelector).Length() == 0 {
			return nil, &ParseError{URL: pageURL, Reason: "set details not found, page is not a study set"}
		}
		return nil, &ParseError{URL: pageURL, Reason: "term list section not found"}
	}

	list.Find(termRowSelector).Each(func(_ int, row *goquery.Selection) {
		content := row.Find(termContentSel).First()
		if content.Length() == 0 {
			set.SkippedRows++
			return
		}

		smallSide := content.Find(smallSideSelector).First()
		largeSide := content.Find(largeSideSelector).First()

		front := sideText(smallSide, frontSpanSelector)
		if front == "" {
			set.SkippedRows++
			return
		}

		set.Terms = append(set.Terms, Term{
			Front:     front,
			Back:      sideText(largeSide, backSpanSelector),
			ImageURL:  sideImage(largeSide),
			SortOrder: len(set.Terms),
		})
	})

	if len(set.Terms) == 0 {
		return nil, ErrNoTerms
	}

	return set, nil
}

// sideText pulls the card text from one side. It tries the exact span
// the page renders first and falls back to any anchored span, since
// Quizlet shuffles wrapper elements between page revisions.
func sideText(side *goquery.Selection, primary string) string {
	if side.Length() == 0 {
		return ""
	}

	span := side.Find(primary).First()
	if span.Length() == 0 {
		span = side.Find("a span").First()
	}
	if span.Length() == 0 {
		return ""
	}

	if html, err := span.Html(); err == nil && strings.TrimSpace(html) != "" {
		return SanitizeCardText(html)
	}
	return SanitizeCardText(span.Text())
}

// sideImage returns the definition-side image URL, if the term has one
func sideImage(side *goquery.Selection) string {
	if side.Length() == 0 {
		return ""
	}

	img := side.Find(termImageSelector).First()
	if img.Length() == 0 {
		img = side.Find("img").First()
	}
	if img.Length() == 0 {
		return ""
	}

	if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	// Lazy-loaded images keep the URL in data-src.
	return strings.TrimSpace(img.AttrOr("data-src", ""))
}

// pageTitle reads the set title from og:title, falling back to the
// document title with Quizlet's suffixes trimmed
func pageTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")); t != "" {
		return t
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSuffix(title, "| Quizlet")
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, "Flashcards")
	return strings.TrimSpace(title)
}

func pageDescription(doc *goquery.Document) string {
	if d := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	return strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
}
