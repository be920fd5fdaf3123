package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"leadscout/worker/config"
	"leadscout/worker/services/cache"
	"leadscout/worker/services/metrics"
)

const salesPage = `<html><head>
	<title>Curso de Marketing Digital</title>
	<meta name="description" content="Aprenda marketing digital do zero com aulas práticas e suporte dedicado.">
</head><body>
	<h1>Curso de Marketing Digital Completo</h1>
	<p>Aprenda a construir campanhas do zero com acompanhamento semanal.</p>
	<p>Bônus 1: Planilha de planejamento de campanhas</p>
	<p>Bônus 2: E-book com estratégias de tráfego pago</p>
	<p>Oferta por apenas R$ 197,00 à vista ou em até 12 parcelas.</p>
	<p>Garantia incondicional de 7 dias para pedir reembolso.</p>
	<footer>
		<a href="https://wa.me/5511912345678">Fale no WhatsApp</a>
		<a href="mailto:contato@cursodemarketing.com.br">Email</a>
	</footer>
</body></html>`

func testPipeline(t *testing.T) (*Pipeline, *metrics.Service) {
	t.Helper()
	cfg := config.Config{
		CacheTTL:        30 * time.Minute,
		MinContentChars: 200,
		MaxRetries:      3,
		ChromeDisabled:  true,
	}
	metricsSvc := metrics.NewService()
	return NewPipeline(cfg, cache.NewMemoryService(), metricsSvc), metricsSvc
}

func TestPipelineExtractEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(salesPage))
	}))
	defer server.Close()

	pipeline, metricsSvc := testPipeline(t)
	record := pipeline.Extract(context.Background(), server.URL)

	assert.Equal(t, MethodStaticFetch, record.Method)
	assert.Equal(t, "Curso de Marketing Digital Completo", record.Title)
	assert.NotEmpty(t, record.Summary)
	assert.Contains(t, record.CleanText, "campanhas do zero")

	assert.Contains(t, record.BonusesDetected, "Bônus 1: Planilha de planejamento de campanhas")
	assert.Contains(t, record.BonusesDetected, "Bônus 2: E-book com estratégias de tráfego pago")
	assert.Contains(t, record.PriceDetected, "R$ 197,00")

	assert.Contains(t, record.Contacts.WhatsApp, "+5511912345678")
	assert.Contains(t, record.Contacts.Email, "contato@cursodemarketing.com.br")
	assert.Equal(t, server.URL, record.Contacts.Site[0])

	snap := metricsSvc.Snapshot()
	assert.Equal(t, int64(1), snap.SuccessfulExtractions)
}

func TestPipelineExtractUsesCache(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(salesPage))
	}))
	defer server.Close()

	pipeline, _ := testPipeline(t)
	first := pipeline.Extract(context.Background(), server.URL)
	second := pipeline.Extract(context.Background(), server.URL)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.BonusesDetected, second.BonusesDetected)
	assert.Equal(t, first.Contacts, second.Contacts)
}

func TestPipelineExtractInvalidURL(t *testing.T) {
	pipeline, metricsSvc := testPipeline(t)

	record := pipeline.Extract(context.Background(), "ftp://exemplo.com.br/arquivo")

	assert.Equal(t, MethodFailed, record.Method)
	assert.NotEmpty(t, record.Error)
	assert.Empty(t, record.CleanText)
	assert.Equal(t, []string{"ftp://exemplo.com.br/arquivo"}, record.Contacts.Site)
	assert.Equal(t, int64(1), metricsSvc.Snapshot().FailedExtractions)
}

func TestPipelineExtractServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	pipeline, _ := testPipeline(t)
	record := pipeline.Extract(context.Background(), server.URL)

	assert.Equal(t, MethodFailed, record.Method)
	assert.NotEmpty(t, record.Error)
}

func TestPipelineExtractReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(salesPage))
	}))
	defer server.Close()

	pipeline, _ := testPipeline(t)
	report, err := pipeline.ExtractReport(context.Background(), server.URL)

	assert.NoError(t, err)
	assert.NotEmpty(t, report.Bonuses)
	assert.Contains(t, report.Prices, "R$ 197,00")
	assert.NotEmpty(t, report.Guarantees)
	assert.Equal(t, server.URL, report.URL)
}

func TestPipelineExtractReportFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	pipeline, _ := testPipeline(t)
	report, err := pipeline.ExtractReport(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://exemplo.com.br/pagina"))
	assert.NoError(t, ValidateURL("http://exemplo.com.br"))
	assert.Error(t, ValidateURL("ftp://exemplo.com.br"))
	assert.Error(t, ValidateURL("exemplo.com.br"))
	assert.Error(t, ValidateURL(""))
}
