package extractor

// Extraction methods recorded on a Record. The method reflects whichever
// fetch strategy produced the final clean text.
const (
	MethodStaticFetch    = "static-fetch"
	MethodHeadlessRender = "headless-render"
	MethodFallback       = "fallback"
	MethodFailed         = "failed"
	MethodUnknown        = "unknown"
)

// Contacts holds the five de-duplicated contact channels found on a page.
// Values keep insertion order; first-seen wins on duplicates.
type Contacts struct {
	Phone    []string `json:"telefone"`
	WhatsApp []string `json:"whatsapp"`
	Email    []string `json:"email"`
	Site     []string `json:"site"`
	Address  []string `json:"endereco"`
}

// NewContacts returns an empty contact set with the site list seeded with
// the page's own URL.
func NewContacts(pageURL string) Contacts {
	return Contacts{
		Phone:    []string{},
		WhatsApp: []string{},
		Email:    []string{},
		Site:     []string{pageURL},
		Address:  []string{},
	}
}

// Record is the result of one extraction pass over a single URL.
type Record struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Summary          string   `json:"summary"`
	CleanText        string   `json:"cleanText"`
	BonusesDetected  []string `json:"bonuses_detected"`
	PriceDetected    []string `json:"price_detected"`
	Contacts         Contacts `json:"contatos"`
	URL              string   `json:"url"`
	Method           string   `json:"method"`
	ExtractionTimeMs int64    `json:"extractionTime"`
	Error            string   `json:"error,omitempty"`
}

// BonusSource tags which of the three independent extraction paths produced
// a bonus candidate.
type BonusSource string

const (
	SourceDirect  BonusSource = "direct"
	SourceSection BonusSource = "specialSection"
	SourceGeneral BonusSource = "generalText"
)

// ElementContext describes where in the DOM a candidate was found.
type ElementContext struct {
	ParentTag   string `json:"parentTag"`
	ParentClass string `json:"parentClass"`
	Siblings    int    `json:"siblings"`
}

// BonusCandidate is one bonus mention surfaced by the heuristic extractor
// or re-derived by the validator.
type BonusCandidate struct {
	Source   BonusSource    `json:"source"`
	Selector string         `json:"selector"`
	Content  string         `json:"content"`
	Context  ElementContext `json:"context"`
}

// SectionMatch is a larger page section relevant to bonuses or offers.
type SectionMatch struct {
	Selector string `json:"selector"`
	Content  string `json:"content"`
	Length   int    `json:"length"`
}

// Metadata carries page metadata pulled verbatim from meta/link tags.
type Metadata struct {
	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	Keywords      string `json:"keywords"`
	Canonical     string `json:"canonical"`
}

// Report is the full heuristic extraction over a parsed page, consumed by
// the cross-source validator on the enhanced path.
type Report struct {
	Title      string           `json:"titulo"`
	Descricao  string           `json:"descricao"`
	Texts      []string         `json:"textos"`
	Bonuses    []BonusCandidate `json:"bonus"`
	Prices     []string         `json:"preco"`
	Guarantees []string         `json:"garantia"`
	Sections   []SectionMatch   `json:"secoesEspeciais"`
	Metadata   Metadata         `json:"metadados"`
	Contacts   Contacts         `json:"contatos"`
	URL        string           `json:"url"`
}
