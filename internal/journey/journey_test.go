package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Quanto custa o curso?", StageNegotiation},
		{"tem desconto pra pagamento no pix?", StageNegotiation},
		{"não consigo fazer login na plataforma", StageRetention},
		{"quero cancelar e pedir reembolso", StageRetention},
		{"o que é esse produto?", StageDiscovery},
		{"como funciona o método?", StageDiscovery},
		{"", StageDiscovery},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestClassifyNegotiationBeatsRetention(t *testing.T) {
	// Mixed intent resolves toward the sale.
	assert.Equal(t, StageNegotiation, Classify("qual o preço do suporte estendido?"))
}

func TestShouldMentionBonus(t *testing.T) {
	assert.True(t, ShouldMentionBonus(StageNegotiation, "posso parcelar?"))
	assert.True(t, ShouldMentionBonus(StageDiscovery, "quais bônus estão inclusos?"))
	assert.False(t, ShouldMentionBonus(StageDiscovery, "como funciona?"))
	assert.False(t, ShouldMentionBonus(StageRetention, "perdi minha senha"))
}

func TestSynonymStaysInPool(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := Synonym("empolgacao")
		assert.Contains(t, synonyms["empolgacao"], got)
	}
	assert.Empty(t, Synonym("inexistente"))
}
