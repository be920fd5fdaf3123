// Package responder builds chatbot answers from extracted page data using
// intent rules. It keeps the bot useful when no upstream language model is
// configured and doubles as the deterministic fallback path.
package responder

import (
	"fmt"
	"regexp"
	"strings"

	"leadscout/worker/internal/extractor"
	"leadscout/worker/internal/journey"
)

type rule struct {
	pattern *regexp.Regexp
	build   func(r *extractor.Record) string
}

// rules are evaluated in order; the first match answers. More specific
// intents come before generic ones.
var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)bônus|bonus|brinde|vantagem|incluso|vem junto`),
		build:   bonusAnswer,
	},
	{
		pattern: regexp.MustCompile(`(?i)preço|preco|valor|quanto custa|quanto é|quanto e|investimento|parcel`),
		build:   priceAnswer,
	},
	{
		pattern: regexp.MustCompile(`(?i)garantia|reembolso|devolução|devolucao|arrependimento`),
		build:   guaranteeAnswer,
	},
	{
		pattern: regexp.MustCompile(`(?i)contato|telefone|whatsapp|zap|email|e-mail|falar com`),
		build:   contactAnswer,
	},
	{
		pattern: regexp.MustCompile(`(?i)como funciona|o que é|o que e|me explica|sobre o que`),
		build:   aboutAnswer,
	},
	{
		pattern: regexp.MustCompile(`(?i)^(oi|olá|ola|bom dia|boa tarde|boa noite|e aí|e ai)[!.,\s]*$`),
		build:   greetingAnswer,
	},
}

// Respond builds an answer for a visitor message from the page record. The
// journey stage decides whether a bonus teaser is appended to non-bonus
// answers.
func Respond(message string, record *extractor.Record, stage string) string {
	if record == nil {
		record = &extractor.Record{}
	}

	answer := ""
	bonusIntent := false
	for i, r := range rules {
		if r.pattern.MatchString(message) {
			answer = r.build(record)
			// rules[0] is the bonus intent; a direct bonus answer
			// should not get the teaser appended again
			bonusIntent = i == 0
			break
		}
	}
	if answer == "" {
		answer = aboutAnswer(record)
	}

	if !bonusIntent && len(record.BonusesDetected) > 0 && journey.ShouldMentionBonus(stage, message) {
		answer += fmt.Sprintf(" %s! Comprando agora você ainda leva: %s.",
			journey.Synonym("empolgacao"), strings.Join(record.BonusesDetected, "; "))
	}

	return answer
}

func bonusAnswer(r *extractor.Record) string {
	if len(r.BonusesDetected) == 0 {
		return "Não encontrei bônus anunciados nesta página, mas posso ajudar com outras informações sobre a oferta."
	}
	return fmt.Sprintf("Estes são os bônus desta oferta: %s.", strings.Join(r.BonusesDetected, "; "))
}

func priceAnswer(r *extractor.Record) string {
	if len(r.PriceDetected) == 0 {
		return "Não encontrei o preço publicado nesta página. Quer que eu indique um canal de contato para negociar?"
	}
	return fmt.Sprintf("Os valores encontrados na página são: %s.", strings.Join(r.PriceDetected, ", "))
}

func guaranteeAnswer(r *extractor.Record) string {
	lower := strings.ToLower(r.CleanText)
	if strings.Contains(lower, "garantia") || strings.Contains(lower, "reembolso") {
		return "Sim, a oferta menciona garantia. Vale conferir as condições de devolução descritas na página."
	}
	return "A página não destaca uma política de garantia. Recomendo confirmar com o vendedor antes de comprar."
}

func contactAnswer(r *extractor.Record) string {
	var parts []string
	if len(r.Contacts.WhatsApp) > 0 {
		parts = append(parts, "WhatsApp: "+strings.Join(r.Contacts.WhatsApp, ", "))
	}
	if len(r.Contacts.Phone) > 0 {
		parts = append(parts, "Telefone: "+strings.Join(r.Contacts.Phone, ", "))
	}
	if len(r.Contacts.Email) > 0 {
		parts = append(parts, "Email: "+strings.Join(r.Contacts.Email, ", "))
	}
	if len(parts) == 0 {
		if len(r.Contacts.Site) > 0 {
			return fmt.Sprintf("O canal disponível é o próprio site: %s.", r.Contacts.Site[0])
		}
		return "Não encontrei canais de contato nesta página."
	}
	return "Você pode falar com a equipe por aqui: " + strings.Join(parts, " | ") + "."
}

func aboutAnswer(r *extractor.Record) string {
	if r.Summary != "" {
		return r.Summary
	}
	if r.Description != "" {
		return r.Description
	}
	if r.Title != "" {
		return fmt.Sprintf("Esta página apresenta: %s. Posso detalhar preços, bônus ou formas de contato.", r.Title)
	}
	return "Posso responder perguntas sobre produtos, preços, bônus e formas de contato. O que você quer saber?"
}

func greetingAnswer(r *extractor.Record) string {
	if r.Title != "" {
		return fmt.Sprintf("Olá! Sou o assistente de %s. Como posso ajudar?", r.Title)
	}
	return "Olá! Como posso ajudar você hoje?"
}
