package validator

import (
	"strings"

	"leadscout/worker/internal/extractor"
	"leadscout/worker/logger"
)

// Source weights. Direct selector hits are trusted most; mentions buried in
// general page text the least.
const (
	weightDirect  = 1.0
	weightSection = 0.8
	weightGeneral = 0.6
)

const maxSectionExcerpt = 200

// validationTerms is the vocabulary used when re-deriving candidates from
// sections and general text. Deliberately tighter than the extraction
// vocabulary: cross-checking with loose terms would only confirm noise.
var validationTerms = []string{
	"bônus", "bonus", "brinde", "presente", "extra", "grátis", "gratis",
	"incluído", "incluido", "adicional", "oferta", "promocional",
}

// Critical issue messages surfaced to API consumers.
const (
	IssueNoBonuses = "NENHUM bônus identificado após validação cruzada"
	IssueNoPrices  = "NENHUM preço identificado"
)

// Consistency holds the internal-coherence check over one report.
type Consistency struct {
	Score  float64  `json:"score"`
	Issues []string `json:"inconsistencias"`
}

// Result is the outcome of cross-source validation of one report.
type Result struct {
	Sources         map[extractor.BonusSource][]extractor.BonusCandidate `json:"fontes"`
	Unified         []extractor.BonusCandidate                           `json:"bonusUnificados"`
	TotalFound      int                                                  `json:"totalEncontrado"`
	Confiabilidade  float64                                              `json:"confiabilidade"`
	Consistency     Consistency                                          `json:"consistencia"`
	ConfidenceScore float64                                              `json:"pontuacaoConfianca"`
	CriticalIssues  []string                                             `json:"problemasCriticos"`
}

// Validator cross-checks a heuristic report against itself: bonus candidates
// from independent extraction paths are unified, weighted by the confidence
// of their path and scored for internal consistency. It is pure; the same
// report always yields the same result.
type Validator struct {
	log *logger.Logger
}

func New() *Validator {
	return &Validator{log: logger.ForValidator()}
}

// Validate runs cross-source validation over one report.
func (v *Validator) Validate(report *extractor.Report) *Result {
	sources := v.collectSources(report)
	unified := unifyCandidates(sources)

	confiabilidade := reliabilityScore(sources, len(unified))
	consistency := checkConsistency(report, unified)
	confidence := confidenceScore(report, confiabilidade, consistency.Score)

	// Every inconsistency is also surfaced as a critical issue, on top of
	// the hard absence checks.
	critical := append([]string{}, consistency.Issues...)
	if len(unified) == 0 {
		critical = append(critical, IssueNoBonuses)
	}
	if len(report.Prices) == 0 {
		critical = append(critical, IssueNoPrices)
	}

	result := &Result{
		Sources:         sources,
		Unified:         unified,
		TotalFound:      len(unified),
		Confiabilidade:  confiabilidade,
		Consistency:     consistency,
		ConfidenceScore: confidence,
		CriticalIssues:  critical,
	}

	v.log.Info().
		Str("url", report.URL).
		Int("unified", len(unified)).
		Float64("confidence", confidence).
		Int("criticalIssues", len(critical)).
		Msg("Cross-source validation finished")

	return result
}

// Apply returns a copy of the report with the bonus list replaced by the
// unified candidates. The original report is not modified.
func (r *Result) Apply(report *extractor.Report) *extractor.Report {
	corrected := *report
	if len(r.Unified) > 0 {
		corrected.Bonuses = r.Unified
	}
	return &corrected
}

// collectSources buckets candidates by extraction path. Direct hits come
// straight from the heuristic extractor; section and general candidates are
// re-derived here so each path stays independent.
func (v *Validator) collectSources(report *extractor.Report) map[extractor.BonusSource][]extractor.BonusCandidate {
	sources := map[extractor.BonusSource][]extractor.BonusCandidate{
		extractor.SourceDirect:  {},
		extractor.SourceSection: {},
		extractor.SourceGeneral: {},
	}

	for _, candidate := range report.Bonuses {
		switch candidate.Source {
		case extractor.SourceDirect:
			sources[extractor.SourceDirect] = append(sources[extractor.SourceDirect], candidate)
		default:
			sources[extractor.SourceGeneral] = append(sources[extractor.SourceGeneral], candidate)
		}
	}

	for _, section := range report.Sections {
		if !containsValidationTerm(section.Content) {
			continue
		}
		excerpt := section.Content
		if len(excerpt) > maxSectionExcerpt {
			excerpt = excerpt[:maxSectionExcerpt]
		}
		sources[extractor.SourceSection] = append(sources[extractor.SourceSection], extractor.BonusCandidate{
			Source:   extractor.SourceSection,
			Selector: "secao_" + section.Selector,
			Content:  excerpt,
		})
	}

	for _, text := range report.Texts {
		if !containsValidationTerm(text) {
			continue
		}
		sources[extractor.SourceGeneral] = append(sources[extractor.SourceGeneral], extractor.BonusCandidate{
			Source:  extractor.SourceGeneral,
			Content: text,
		})
	}

	return sources
}

// unifyCandidates merges the three buckets into one list, de-duplicated by
// normalized content. Buckets are visited in trust order, so when the same
// content appears in several paths the most trusted occurrence survives.
func unifyCandidates(sources map[extractor.BonusSource][]extractor.BonusCandidate) []extractor.BonusCandidate {
	order := []extractor.BonusSource{
		extractor.SourceDirect,
		extractor.SourceSection,
		extractor.SourceGeneral,
	}

	seen := make(map[string]struct{})
	unified := []extractor.BonusCandidate{}
	for _, source := range order {
		for _, candidate := range sources[source] {
			key := strings.ToLower(strings.TrimSpace(candidate.Content))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			unified = append(unified, candidate)
		}
	}
	return unified
}

// reliabilityScore averages the weights of the non-empty paths, scaled by
// how many of each path's candidates exist, then divides by the unified
// count.
func reliabilityScore(sources map[extractor.BonusSource][]extractor.BonusCandidate, uniqueCount int) float64 {
	weights := map[extractor.BonusSource]float64{
		extractor.SourceDirect:  weightDirect,
		extractor.SourceSection: weightSection,
		extractor.SourceGeneral: weightGeneral,
	}

	var score, totalWeight float64
	for source, candidates := range sources {
		if len(candidates) == 0 {
			continue
		}
		score += weights[source] * float64(len(candidates))
		totalWeight += weights[source]
	}

	if totalWeight == 0 {
		return 0
	}

	divisor := uniqueCount
	if divisor < 1 {
		divisor = 1
	}
	return (score / totalWeight) / float64(divisor)
}

// checkConsistency counts contradictions between the extracted facts.
// A missing field on its own is not a contradiction; only claims that
// conflict with each other count against the score.
func checkConsistency(report *extractor.Report, unified []extractor.BonusCandidate) Consistency {
	issues := []string{}

	if len(unified) > 0 && len(report.Prices) == 0 {
		issues = append(issues, "Bônus encontrados mas preços não identificados")
	}

	score := float64(10-len(issues)) / 10
	if score < 0 {
		score = 0
	}
	return Consistency{Score: score, Issues: issues}
}

// confidenceScore combines the sub-scores: bonus reliability 40%, price
// presence 20%, guarantee presence 20%, consistency 20%. Clamped to [0, 1].
func confidenceScore(report *extractor.Report, confiabilidade, consistencyScore float64) float64 {
	priceScore := 0.5
	if len(report.Prices) > 0 {
		priceScore = 1.0
	}
	guaranteeScore := 0.3
	if len(report.Guarantees) > 0 {
		guaranteeScore = 1.0
	}

	confidence := confiabilidade*0.4 + priceScore*0.2 + guaranteeScore*0.2 + consistencyScore*0.2
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

func containsValidationTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range validationTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
