package extractor

// Heuristic categories. Marketing pages use inconsistent, non-semantic
// markup, so matching is done on class-name substrings; the selector tables
// below are the single place the vocabulary lives.
const (
	CategoryBonus     = "bonus"
	CategoryPrice     = "price"
	CategoryGuarantee = "guarantee"
	CategorySection   = "section"
	CategoryRelevant  = "relevant"
	CategoryContact   = "contact"
)

// SelectorRule binds a CSS selector to a heuristic category.
type SelectorRule struct {
	Selector string
	Category string
}

// heuristicSelectors maps every selector the heuristic extractor queries to
// its category. Keeping this as a table lets the vocabulary be tested and
// extended without touching control flow.
var heuristicSelectors = []SelectorRule{
	{`[class*="bonus"]`, CategoryBonus},
	{`[class*="bônus"]`, CategoryBonus},
	{`[class*="gift"]`, CategoryBonus},
	{`[class*="presente"]`, CategoryBonus},
	{`[class*="extra"]`, CategoryBonus},
	{`.offer, .oferta`, CategoryBonus},
	{`.special, .especial`, CategoryBonus},
	{`.bonus-item`, CategoryBonus},
	{`.bonus-section`, CategoryBonus},

	{`[class*="price"]`, CategoryPrice},
	{`[class*="preco"]`, CategoryPrice},
	{`[class*="valor"]`, CategoryPrice},
	{`.pricing, .cost, .money`, CategoryPrice},
	{`.currency`, CategoryPrice},

	{`[class*="garantia"]`, CategoryGuarantee},
	{`[class*="guarantee"]`, CategoryGuarantee},
	{`[class*="warranty"]`, CategoryGuarantee},
	{`.safe, .security, .refund`, CategoryGuarantee},

	{`section`, CategorySection},
	{`div[class*="section"]`, CategorySection},
	{`div[class*="container"]`, CategorySection},
	{`.offer-section`, CategorySection},
	{`.bonus-area`, CategorySection},
	{`.special-offer`, CategorySection},

	{`h1, h2, h3, h4`, CategoryRelevant},
	{`.card, .benefit, .feature`, CategoryRelevant},
	{`[class*="bonus"], [class*="bônus"]`, CategoryRelevant},
	{`[class*="offer"], [class*="oferta"]`, CategoryRelevant},
	{`.pricing, .price, .valor`, CategoryRelevant},
	{`.guarantee, .garantia`, CategoryRelevant},
	{`section, .section, .container`, CategoryRelevant},
	{`p, span, div`, CategoryRelevant},

	{`footer`, CategoryContact},
	{`[class*="footer"]`, CategoryContact},
	{`[class*="rodape"]`, CategoryContact},
	{`[class*="contact"]`, CategoryContact},
	{`[class*="contato"]`, CategoryContact},
	{`[class*="atendimento"]`, CategoryContact},
}

// SelectorsFor returns the selectors registered under a category.
func SelectorsFor(category string) []string {
	var out []string
	for _, rule := range heuristicSelectors {
		if rule.Category == category {
			out = append(out, rule.Selector)
		}
	}
	return out
}

// bonusTerms is the vocabulary of bonus-indicating terms used by the
// heuristic extractor. All lowercase; matching is substring-based.
var bonusTerms = []string{
	"bônus", "bonus", "brinde", "presente", "extra", "grátis", "gratis",
	"incluído", "incluido", "adicional", "oferta", "promocional",
	"regalo", "complemento", "vantagem", "benefício", "beneficio",
	"exclusivo", "limitado", "especial", "oferta especial",
}

// sectionTerms extends bonusTerms for special-section relevance.
var sectionTerms = append(append([]string{}, bonusTerms...),
	"oferta", "promoção", "limitado", "exclusivo", "especial")

// whatsappIndicators classify a phone match as WhatsApp when any of them
// appears in the surrounding text window.
var whatsappIndicators = []string{
	"whatsapp", "wa.me", "api.whatsapp", "zap", "whats", "wpp",
}
