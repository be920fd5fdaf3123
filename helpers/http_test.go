package helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>olá mundo</body></html>")
	}))
	defer server.Close()

	result, err := FetchHTML(server.URL)
	assert.NoError(t, err)
	assert.Contains(t, string(result.Body), "olá mundo")
	assert.Equal(t, server.URL, result.FinalURL)
}

func TestFetchHTMLFollowsRedirects(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			fmt.Fprint(w, "<html><body>destino</body></html>")
			return
		}
		http.Redirect(w, r, target.URL+"/final", http.StatusFound)
	}))
	defer target.Close()

	result, err := FetchHTML(target.URL + "/start")
	assert.NoError(t, err)
	assert.Contains(t, string(result.Body), "destino")
	assert.Equal(t, target.URL+"/final", result.FinalURL)
}

func TestFetchHTMLRejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FetchHTML(server.URL)
	assert.Error(t, err)
}

func TestFetchHTMLStopsAfterTooManyRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	_, err := FetchHTML(server.URL + "/loop")
	assert.Error(t, err)
}
