package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return doc
}

func TestNormalizeBrazilianPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ddd and mobile", "(11) 98765-4321", "+5511987654321"},
		{"ddd and landline", "11 3456-7890", "+551134567890"},
		{"already has country code", "5511987654321", "+5511987654321"},
		{"country code twelve digits", "551134567890", "+551134567890"},
		{"formatted with plus", "+55 11 98765-4321", "+5511987654321"},
		{"too short passes through", "987654321", "987654321"},
		{"too long passes through", "55119876543210", "55119876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBrazilianPhone(tt.input))
		})
	}
}

func TestContactExtractorAnchors(t *testing.T) {
	html := `<html><body>
		<a href="tel:+5511987654321">Ligue agora</a>
		<a href="https://wa.me/5511912345678">Fale no WhatsApp</a>
		<a href="mailto:contato@exemplo.com.br?subject=Oi">Email</a>
	</body></html>`

	contacts := NewContactExtractor().Extract(mustDoc(t, html), "https://exemplo.com.br")

	assert.Contains(t, contacts.Phone, "+5511987654321")
	assert.Contains(t, contacts.WhatsApp, "+5511912345678")
	assert.Contains(t, contacts.Email, "contato@exemplo.com.br")
}

func TestContactExtractorWhatsAppContext(t *testing.T) {
	html := `<html><body>
		<p>WhatsApp: (11) 91234-5678</p>
		<p>Telefone fixo para atendimento comercial em horário útil: (11) 3456-7890</p>
	</body></html>`

	contacts := NewContactExtractor().Extract(mustDoc(t, html), "https://exemplo.com.br")

	assert.Contains(t, contacts.WhatsApp, "+5511912345678")
	assert.Contains(t, contacts.Phone, "+551134567890")
	assert.NotContains(t, contacts.Phone, "+5511912345678")
}

func TestContactExtractorSiteSeedAndCap(t *testing.T) {
	html := `<html><body>
		<p>Visite https://a.example.com e https://b.example.com</p>
		<p>Também https://c.example.com e https://d.example.com</p>
	</body></html>`

	contacts := NewContactExtractor().Extract(mustDoc(t, html), "https://exemplo.com.br")

	assert.Equal(t, "https://exemplo.com.br", contacts.Site[0])
	// seed plus at most three matches
	assert.LessOrEqual(t, len(contacts.Site), 4)
	assert.NotContains(t, contacts.Site, "https://d.example.com")
}

func TestContactExtractorIdempotent(t *testing.T) {
	html := `<html><body>
		<footer class="footer">
			<p>Contato: vendas@exemplo.com.br</p>
			<a href="https://wa.me/5511912345678">zap</a>
		</footer>
	</body></html>`

	ext := NewContactExtractor()
	first := ext.Extract(mustDoc(t, html), "https://exemplo.com.br")
	second := ext.Extract(mustDoc(t, html), "https://exemplo.com.br")

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"vendas@exemplo.com.br"}, first.Email)
	assert.Equal(t, []string{"+5511912345678"}, first.WhatsApp)
}

func TestContactExtractorFooterSweep(t *testing.T) {
	// Number lives only in the footer, which the clean-text pass strips.
	html := `<html><body>
		<p>Conteúdo principal sem contatos.</p>
		<div class="rodape">Atendimento: (21) 99876-5432 zap</div>
	</body></html>`

	contacts := NewContactExtractor().Extract(mustDoc(t, html), "https://exemplo.com.br")

	assert.Contains(t, contacts.WhatsApp, "+5521998765432")
}
