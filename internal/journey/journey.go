// Package journey classifies visitor messages into purchase-journey stages
// so responses can be tuned to where the visitor is: still discovering the
// product, negotiating the purchase, or already a customer needing support.
package journey

import (
	"math/rand/v2"
	"strings"
)

// Journey stages, in the visitor's natural order.
const (
	StageDiscovery   = "descoberta"
	StageNegotiation = "negociacao"
	StageRetention   = "fidelizacao"
)

// negotiationTerms signal purchase intent. Checked first: a visitor asking
// about price deserves a sales answer even when the message also mentions
// support topics.
var negotiationTerms = []string{
	"preço", "preco", "valor", "quanto custa", "quanto é", "quanto e",
	"desconto", "pagamento", "parcel", "investimento", "comprar",
	"cupom", "caro", "barato", "boleto", "cartão", "cartao", "pix",
}

// retentionTerms signal an existing customer.
var retentionTerms = []string{
	"suporte", "atendimento", "problema", "ajuda com", "cancelar",
	"reembolso", "como usar", "não consigo", "nao consigo",
	"acesso", "login", "senha", "já comprei", "ja comprei",
}

var bonusTriggers = []string{
	"bônus", "bonus", "brinde", "vantagem", "o que vem junto", "incluso",
}

// synonym pools rotated into responses so repeated answers read less canned.
var synonyms = map[string][]string{
	"empolgacao": {"Incrível", "Fantástico", "Excelente", "Perfeito", "Sensacional"},
	"chamada":    {"Aproveite", "Garanta já", "Não perca essa chance"},
}

// Classify maps a visitor message to a journey stage. Unknown messages
// default to discovery.
func Classify(message string) string {
	lower := strings.ToLower(message)

	for _, term := range negotiationTerms {
		if strings.Contains(lower, term) {
			return StageNegotiation
		}
	}
	for _, term := range retentionTerms {
		if strings.Contains(lower, term) {
			return StageRetention
		}
	}
	return StageDiscovery
}

// ShouldMentionBonus reports whether a response should bring up bonuses:
// always during negotiation, or whenever the visitor asks about them.
func ShouldMentionBonus(stage, message string) bool {
	if stage == StageNegotiation {
		return true
	}
	lower := strings.ToLower(message)
	for _, term := range bonusTriggers {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Synonym picks a random synonym from the named pool. Unknown pools return
// an empty string.
func Synonym(pool string) string {
	options := synonyms[pool]
	if len(options) == 0 {
		return ""
	}
	return options[rand.IntN(len(options))]
}

// Pools lists the registered synonym pool names.
func Pools() []string {
	names := make([]string, 0, len(synonyms))
	for name := range synonyms {
		names = append(names, name)
	}
	return names
}
