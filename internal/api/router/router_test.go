package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apptbook/scheduling-platform/internal/territory"
	"github.com/apptbook/scheduling-platform/pkg/logging"
)

type staticTerritory struct{}

func (staticTerritory) Countries(ctx context.Context) ([]territory.Country, error) {
	return []territory.Country{{ID: 1, Name: "U.S"}}, nil
}

func (staticTerritory) DivisionsByCountry(ctx context.Context, countryID int) ([]territory.Division, error) {
	return []territory.Division{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	cfg := &Config{
		Logger:           logger,
		TerritoryHandler: territory.NewHandler(staticTerritory{}, logger),
	}
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterMountsCountries(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var countries []territory.Country
	if err := json.NewDecoder(rr.Body).Decode(&countries); err != nil {
		t.Fatalf("failed to decode countries: %v", err)
	}
	if len(countries) != 1 || countries[0].Name != "U.S" {
		t.Fatalf("unexpected countries: %#v", countries)
	}
}

func TestRouterUnmountedRouteIs404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
