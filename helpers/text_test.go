package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "one two three", NormalizeText("  one \n\t two   three  "))
	assert.Equal(t, "a b", NormalizeText("a\r\n\r\nb"))
}

func TestDedupLines(t *testing.T) {
	input := "Bônus exclusivo\n\n  Bônus exclusivo  \nOutra linha\nOutra linha\nTerceira"
	assert.Equal(t, "Bônus exclusivo\nOutra linha\nTerceira", DedupLines(input))

	assert.Equal(t, "", DedupLines(""))
	assert.Equal(t, "", DedupLines("\n\n  \n"))
}

func TestDedupLinesKeepsFirstSeenOrder(t *testing.T) {
	input := "b\na\nb\nc\na"
	assert.Equal(t, "b\na\nc", DedupLines(input))
}

func TestClampSentences(t *testing.T) {
	text := "Primeira frase. Segunda frase! Terceira frase? Quarta frase."
	assert.Equal(t, "Primeira frase. Segunda frase!", ClampSentences(text, 2))
	assert.Equal(t, "Primeira frase.", ClampSentences(text, 1))
	assert.Equal(t, text, ClampSentences(text, 10))
	assert.Equal(t, "", ClampSentences("", 3))
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("Ganhe um bônus. Aproveite hoje! Por que esperar?")
	assert.Equal(t, []string{"Ganhe um bônus.", "Aproveite hoje!", "Por que esperar?"}, sentences)
}
