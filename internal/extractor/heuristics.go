package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscout/worker/helpers"
)

const (
	maxSectionContent = 300
	minSectionLength  = 50
	maxSectionLength  = 1000
	minRelevantText   = 5
	maxRelevantText   = 500
)

var (
	priceRegex     = regexp.MustCompile(`(?i)R\$\s?\d+[.,]\d+|\d+[.,]\d+\s?reais`)
	guaranteeRegex = regexp.MustCompile(`(?i)garantia|devolução|devolucao|reembolso|segurança|seguranca`)
)

// HeuristicExtractor mines a parsed page for bonuses, prices, guarantees and
// offer sections using the selector tables in vocab.go. It feeds the
// cross-source validator, which expects candidates tagged with the path
// that found them.
type HeuristicExtractor struct {
	contacts *ContactExtractor
}

func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{contacts: NewContactExtractor()}
}

// Extract runs every heuristic over the document and assembles a Report.
func (h *HeuristicExtractor) Extract(doc *goquery.Document, pageURL string) *Report {
	return &Report{
		Title:      helpers.NormalizeText(doc.Find("title").First().Text()),
		Descricao:  metaContent(doc, `meta[name="description"]`),
		Texts:      h.RelevantTexts(doc),
		Bonuses:    h.FindBonuses(doc),
		Prices:     h.FindPrices(doc),
		Guarantees: h.FindGuarantees(doc),
		Sections:   h.FindSpecialSections(doc),
		Metadata:   h.ExtractMetadata(doc),
		Contacts:   h.contacts.Extract(doc, pageURL),
		URL:        pageURL,
	}
}

// FindBonuses runs two passes: targeted selectors first, then a broad sweep
// over every element whose text mentions a bonus term. Candidates are
// de-duplicated by exact content, first-seen wins.
func (h *HeuristicExtractor) FindBonuses(doc *goquery.Document) []BonusCandidate {
	candidates := []BonusCandidate{}
	seen := make(map[string]struct{})

	add := func(source BonusSource, selector, content string, s *goquery.Selection) {
		content = helpers.NormalizeText(content)
		if content == "" || len(content) >= maxRelevantText {
			return
		}
		if !containsAnyTerm(strings.ToLower(content), bonusTerms) {
			return
		}
		if _, ok := seen[content]; ok {
			return
		}
		seen[content] = struct{}{}
		candidates = append(candidates, BonusCandidate{
			Source:   source,
			Selector: selector,
			Content:  content,
			Context:  elementContext(s),
		})
	}

	for _, sel := range SelectorsFor(CategoryBonus) {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			add(SourceDirect, sel, s.Text(), s)
		})
	}

	// Broad sweep catches bonuses living in unmarked markup.
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		text := s.Text()
		if len(text) >= maxRelevantText {
			return
		}
		add(SourceGeneral, goquery.NodeName(s), text, s)
	})

	return candidates
}

// FindPrices collects unique currency mentions from price-tagged elements
// and from the page text.
func (h *HeuristicExtractor) FindPrices(doc *goquery.Document) []string {
	prices := newUniqueList()

	for _, sel := range SelectorsFor(CategoryPrice) {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			for _, m := range priceRegex.FindAllString(s.Text(), -1) {
				prices.add(helpers.NormalizeText(m))
			}
		})
	}

	for _, m := range priceRegex.FindAllString(doc.Find("body").Text(), -1) {
		prices.add(helpers.NormalizeText(m))
	}

	return prices.items
}

// FindGuarantees collects short guarantee statements.
func (h *HeuristicExtractor) FindGuarantees(doc *goquery.Document) []string {
	guarantees := newUniqueList()

	collect := func(s *goquery.Selection) {
		text := helpers.NormalizeText(s.Text())
		if text == "" || len(text) > maxSectionContent {
			return
		}
		if guaranteeRegex.MatchString(text) {
			guarantees.add(text)
		}
	}

	for _, sel := range SelectorsFor(CategoryGuarantee) {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) { collect(s) })
	}
	doc.Find("p, span, div, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() == 0 {
			collect(s)
		}
	})

	return guarantees.items
}

// FindSpecialSections returns larger page regions whose text mentions offer
// vocabulary. Content is truncated so sections stay summaries, not dumps.
func (h *HeuristicExtractor) FindSpecialSections(doc *goquery.Document) []SectionMatch {
	sections := []SectionMatch{}
	seen := make(map[string]struct{})

	for _, sel := range SelectorsFor(CategorySection) {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := helpers.NormalizeText(s.Text())
			if len(text) < minSectionLength || len(text) > maxSectionLength {
				return
			}
			if !containsAnyTerm(strings.ToLower(text), sectionTerms) {
				return
			}

			content := text
			if len(content) > maxSectionContent {
				content = content[:maxSectionContent]
			}
			if _, ok := seen[content]; ok {
				return
			}
			seen[content] = struct{}{}
			sections = append(sections, SectionMatch{
				Selector: sel,
				Content:  content,
				Length:   len(text),
			})
		})
	}

	return sections
}

// ExtractMetadata pulls Open Graph tags, keywords and the canonical link.
func (h *HeuristicExtractor) ExtractMetadata(doc *goquery.Document) Metadata {
	canonical, _ := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	return Metadata{
		OGTitle:       metaContent(doc, `meta[property="og:title"]`),
		OGDescription: metaContent(doc, `meta[property="og:description"]`),
		Keywords:      metaContent(doc, `meta[name="keywords"]`),
		Canonical:     canonical,
	}
}

// RelevantTexts gathers short unique text blocks from content-bearing
// elements for the validator's general-text pass.
func (h *HeuristicExtractor) RelevantTexts(doc *goquery.Document) []string {
	texts := newUniqueList()

	for _, sel := range SelectorsFor(CategoryRelevant) {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if s.Children().Length() > 0 {
				return
			}
			text := helpers.NormalizeText(s.Text())
			if len(text) > minRelevantText && len(text) < maxRelevantText {
				texts.add(text)
			}
		})
	}

	return texts.items
}

func containsAnyTerm(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func elementContext(s *goquery.Selection) ElementContext {
	parent := s.Parent()
	class, _ := parent.Attr("class")
	return ElementContext{
		ParentTag:   goquery.NodeName(parent),
		ParentClass: class,
		Siblings:    parent.Children().Length(),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return helpers.NormalizeText(content)
}
