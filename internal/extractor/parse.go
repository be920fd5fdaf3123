package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscout/worker/helpers"
)

const (
	minTitleLength = 5
	maxTitleLength = 200
	minDescLength  = 50
	maxDescLength  = 1000
	minBlockLength = 15
	maxBlockLength = 1000

	minBonusLine = 10
	maxBonusLine = 200
	maxBonusHits = 5

	maxSummaryLength = 400
	summarySentences = 3
)

var bonusLineRegex = regexp.MustCompile(
	`(?i)bônus|bonus|brinde|extra|grátis|gratis|template|planilha|checklist|e-book|ebook`)

// pageContent is the strategy-independent text extracted from one HTML
// payload.
type pageContent struct {
	Title       string
	Description string
	Summary     string
	CleanText   string
}

func newDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// parsePage derives the displayable content from raw HTML. The document is
// mutated while stripping non-content nodes, so callers needing the full
// DOM (contacts, heuristics) parse their own copy.
func parsePage(html string) (*pageContent, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	title := extractTitle(doc)
	description := extractDescription(doc)
	cleanText := extractCleanText(doc)

	return &pageContent{
		Title:       title,
		Description: description,
		Summary:     buildSummary(cleanText),
		CleanText:   cleanText,
	}, nil
}

// extractTitle tries headline sources in order of reliability.
func extractTitle(doc *goquery.Document) string {
	candidates := []string{
		helpers.NormalizeText(doc.Find("h1").First().Text()),
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		helpers.NormalizeText(doc.Find("title").First().Text()),
	}
	for _, c := range candidates {
		if len(c) > minTitleLength && len(c) < maxTitleLength {
			return c
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	candidates := []string{
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[property="og:description"]`),
		helpers.NormalizeText(doc.Find(".description").First().Text()),
		helpers.NormalizeText(doc.Find("article p").First().Text()),
		helpers.NormalizeText(doc.Find("main p").First().Text()),
	}
	for _, c := range candidates {
		if len(c) > minDescLength && len(c) < maxDescLength {
			return c
		}
	}
	return ""
}

// extractCleanText strips non-content nodes, then gathers mid-sized text
// blocks. The page's meta description is prepended when substantial, since
// rendered text frequently omits it.
func extractCleanText(doc *goquery.Document) string {
	metaDesc := metaContent(doc, `meta[name="description"]`)

	doc.Find("script, style, noscript, iframe, nav, footer, aside").Remove()

	var blocks []string
	if len(metaDesc) > 20 {
		blocks = append(blocks, metaDesc)
	}

	doc.Find("h1, h2, h3, p, li, span, div").Each(func(_ int, s *goquery.Selection) {
		text := helpers.NormalizeText(s.Text())
		if len(text) > minBlockLength && len(text) < maxBlockLength {
			blocks = append(blocks, text)
		}
	})

	return helpers.DedupLines(strings.Join(blocks, "\n"))
}

// buildSummary condenses clean text into up to three sentences capped at
// 400 characters.
func buildSummary(cleanText string) string {
	flat := strings.ReplaceAll(cleanText, "\n", " ")

	var sentences []string
	for _, s := range helpers.SplitSentences(flat) {
		if len(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return ""
	}

	take := sentences
	if len(take) > summarySentences {
		take = take[:summarySentences]
	}
	summary := strings.Join(take, " ")
	if len(summary) > maxSummaryLength {
		summary = summary[:maxSummaryLength]
	}
	if len(sentences) > summarySentences {
		summary += "..."
	}
	return summary
}

// extractBonusLines scans clean text line by line for bonus keywords,
// keeping at most five unique mid-sized lines.
func extractBonusLines(cleanText string) []string {
	bonuses := newUniqueList()
	for _, line := range strings.Split(cleanText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= minBonusLine || len(line) >= maxBonusLine {
			continue
		}
		if !bonusLineRegex.MatchString(line) {
			continue
		}
		bonuses.add(line)
		if bonuses.len() >= maxBonusHits {
			break
		}
	}
	return bonuses.items
}

// extractPriceLines collects unique currency mentions from clean text.
func extractPriceLines(cleanText string) []string {
	prices := newUniqueList()
	for _, m := range priceRegex.FindAllString(cleanText, -1) {
		prices.add(helpers.NormalizeText(m))
	}
	return prices.items
}

// fallbackTitle picks the first mid-sized line of clean text when no title
// source matched.
func fallbackTitle(cleanText string) string {
	for _, line := range strings.Split(cleanText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 10 && len(line) < 150 {
			return line
		}
	}
	return ""
}
