package jobpost

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/proposal-writer/internal/types"
)

// boilerplate is stripped from every page before the description is read.
const boilerplate = "nav, footer, header, script, style, noscript, form[role='search'], " +
	".ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup"

// blockElements end a line of text when a page is flattened.
const blockElements = "p, div, br, li, dt, dd, tr, h1, h2, h3, h4, h5, h6, " +
	"section, article, main, aside, ul, ol, table, pre, blockquote, hr"

// Posting is the text read from a job page.
type Posting struct {
	Title       string
	Description string
}

// ParsePosting extracts the title and description from a job page using
// the selectors registered for platform.
func ParsePosting(html string, platform types.Platform) (Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Posting{}, fmt.Errorf("parse job page: %w", err)
	}
	return Posting{
		Title:       pickTitle(doc),
		Description: pickDescription(doc, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)),
	}, nil
}

// pickTitle prefers og:title, then the first h1, then the document title.
func pickTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	if h1 := collapseLines(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// pickDescription returns the text of the first content selector that
// matches, or the whole body when none do.
func pickDescription(doc *goquery.Document, content, noise []string) string {
	doc.Find(boilerplate).Remove()
	if len(noise) > 0 {
		doc.Find(strings.Join(noise, ", ")).Remove()
	}
	doc.Find(blockElements).Each(func(_ int, el *goquery.Selection) {
		el.AfterHtml("\n")
	})

	for _, sel := range content {
		if match := doc.Find(sel); match.Length() > 0 {
			return collapseLines(match.First().Text())
		}
	}
	return collapseLines(doc.Find("body").Text())
}

// collapseLines trims every line and drops the empty ones.
func collapseLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
