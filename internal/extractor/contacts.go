package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscout/worker/helpers"
)

const maxSiteMatches = 3

// contextWindow is how many characters around a phone match are inspected
// for WhatsApp indicators.
const contextWindow = 50

var (
	phoneRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\+?55\s?\(?\d{2}\)?\s?9?\d{4}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(?\d{2}\)?\s?9\d{4}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(?\d{2}\)?\s?\d{4,5}[-.\s]\d{4}`),
		regexp.MustCompile(`\b\d{10,13}\b`),
	}

	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlRegex    = regexp.MustCompile(`https?://[^\s"'<>]+|www\.[^\s"'<>]+`)
	digitsRegex = regexp.MustCompile(`\D`)
)

// ContactExtractor finds phone numbers, WhatsApp links, emails and site URLs
// on a page. Extraction runs over the page text, over contact-heavy DOM
// regions and over anchor hrefs; all paths merge into the same
// de-duplicated result, so running it twice over the same page is a no-op.
type ContactExtractor struct {
	regionSelectors []string
}

func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{
		regionSelectors: SelectorsFor(CategoryContact),
	}
}

// Extract collects every contact channel from the document. pageURL seeds
// the site list.
func (c *ContactExtractor) Extract(doc *goquery.Document, pageURL string) Contacts {
	acc := newContactAccumulator(pageURL)

	bodyText := doc.Find("body").Text()
	c.scanText(bodyText, acc)

	// Footers and contact blocks often carry numbers the main text omits.
	for _, sel := range c.regionSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			c.scanText(s.Text(), acc)
		})
	}

	c.scanAnchors(doc, acc)

	return acc.contacts()
}

// scanText applies the text regexes over one chunk of page text.
func (c *ContactExtractor) scanText(text string, acc *contactAccumulator) {
	normalized := helpers.NormalizeText(text)
	lower := strings.ToLower(normalized)

	for _, re := range phoneRegexes {
		for _, loc := range re.FindAllStringIndex(normalized, -1) {
			raw := normalized[loc[0]:loc[1]]
			digits := digitsRegex.ReplaceAllString(raw, "")
			if len(digits) < 10 || len(digits) > 13 {
				continue
			}

			phone := NormalizeBrazilianPhone(raw)
			if hasWhatsAppContext(lower, loc[0], loc[1]) {
				acc.whatsapp.add(phone)
			} else {
				acc.phone.add(phone)
			}
		}
	}

	for _, email := range emailRegex.FindAllString(normalized, -1) {
		acc.email.add(strings.ToLower(email))
	}

	for _, site := range urlRegex.FindAllString(normalized, -1) {
		acc.addSite(strings.TrimRight(site, ".,;"))
	}
}

// scanAnchors inspects href attributes, which are explicit declarations of
// intent and beat any text heuristic.
func (c *ContactExtractor) scanAnchors(doc *goquery.Document, acc *contactAccumulator) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)

		switch {
		case strings.HasPrefix(lower, "tel:"):
			digits := digitsRegex.ReplaceAllString(href, "")
			if len(digits) >= 10 && len(digits) <= 13 {
				acc.phone.add(NormalizeBrazilianPhone(digits))
			}
		case strings.Contains(lower, "wa.me") ||
			strings.Contains(lower, "api.whatsapp") ||
			strings.Contains(lower, "whatsapp.com"):
			digits := digitsRegex.ReplaceAllString(href, "")
			if len(digits) >= 10 && len(digits) <= 13 {
				acc.whatsapp.add(NormalizeBrazilianPhone(digits))
			}
		case strings.HasPrefix(lower, "mailto:"):
			email := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(email, '?'); i >= 0 {
				email = email[:i]
			}
			if emailRegex.MatchString(email) {
				acc.email.add(strings.ToLower(email))
			}
		}
	})
}

// NormalizeBrazilianPhone reduces a match to digits and applies the +55
// country prefix rules. 12-13 digits already starting with 55 get a plus;
// 10-11 digits (DDD + number) get +55; anything else passes through as-is.
func NormalizeBrazilianPhone(raw string) string {
	digits := digitsRegex.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(digits, "55") && len(digits) >= 12 && len(digits) <= 13:
		return "+" + digits
	case len(digits) >= 10 && len(digits) <= 11:
		return "+55" + digits
	default:
		return digits
	}
}

func hasWhatsAppContext(lowerText string, start, end int) bool {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(lowerText) {
		to = len(lowerText)
	}
	window := lowerText[from:to]
	for _, indicator := range whatsappIndicators {
		if strings.Contains(window, indicator) {
			return true
		}
	}
	return false
}

// uniqueList keeps first-seen insertion order with O(1) duplicate checks.
type uniqueList struct {
	seen  map[string]struct{}
	items []string
}

func newUniqueList() *uniqueList {
	return &uniqueList{seen: make(map[string]struct{}), items: []string{}}
}

func (u *uniqueList) add(v string) {
	if v == "" {
		return
	}
	if _, ok := u.seen[v]; ok {
		return
	}
	u.seen[v] = struct{}{}
	u.items = append(u.items, v)
}

func (u *uniqueList) len() int { return len(u.items) }

type contactAccumulator struct {
	phone    *uniqueList
	whatsapp *uniqueList
	email    *uniqueList
	site     *uniqueList
	address  *uniqueList

	siteMatches int
}

func newContactAccumulator(pageURL string) *contactAccumulator {
	acc := &contactAccumulator{
		phone:    newUniqueList(),
		whatsapp: newUniqueList(),
		email:    newUniqueList(),
		site:     newUniqueList(),
		address:  newUniqueList(),
	}
	acc.site.add(pageURL)
	return acc
}

// addSite appends a matched URL, capped at the first maxSiteMatches unique
// matches beyond the seeded page URL.
func (a *contactAccumulator) addSite(v string) {
	if a.siteMatches >= maxSiteMatches {
		return
	}
	before := a.site.len()
	a.site.add(v)
	if a.site.len() > before {
		a.siteMatches++
	}
}

func (a *contactAccumulator) contacts() Contacts {
	return Contacts{
		Phone:    a.phone.items,
		WhatsApp: a.whatsapp.items,
		Email:    a.email.items,
		Site:     a.site.items,
		Address:  a.address.items,
	}
}
