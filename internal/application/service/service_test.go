package service_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jhoicas/medtrack/internal/infrastructure/apiclient"
	"github.com/jhoicas/medtrack/internal/infrastructure/storage"
)

// fixture levanta un backend falso y un cliente autenticado contra él.
type fixture struct {
	client *apiclient.Client
	store  *storage.Memory
	mux    *http.ServeMux
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	store := storage.NewMemory()
	if token != "" {
		_ = store.Set(storage.KeyAuthToken, token)
	}
	return &fixture{
		client: apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"}, store),
		store:  store,
		mux:    mux,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
