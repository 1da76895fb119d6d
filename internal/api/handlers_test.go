package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ekzore/tibia-agent/internal/config"
	"github.com/ekzore/tibia-agent/internal/houses"
	"github.com/ekzore/tibia-agent/internal/split"
)

func testAPI() *API {
	return New(&config.Config{}, nil, split.NewTool(), houses.NewClient(), nil)
}

func TestHandleHealth(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestHandleSplit(t *testing.T) {
	api := testAPI()

	payload := `{"session_data": "Aela\nLoot: 200\nBalance: 200\nBryn\nBalance: 0"}`
	req := httptest.NewRequest("POST", "/api/split", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v: %s", w.Code, w.Body.String())
	}

	var res split.Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("split failed: %s", res.Error)
	}
	if len(res.Transfers) != 1 || res.Transfers[0] != "Aela: transfer 100 to Bryn" {
		t.Errorf("transfers = %v", res.Transfers)
	}
}

func TestHandleSplitNoPlayers(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("POST", "/api/split", strings.NewReader(`{"session_data": ""}`))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}

	var res split.Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Error("expected success=false for empty session data")
	}
	if res.Error == "" {
		t.Error("expected descriptive error")
	}
}

func TestHandleSplitInvalidBody(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("POST", "/api/split", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status BadRequest, got %v", w.Code)
	}
}

func TestHandleAskWithoutAgent(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"question": "hi"}`))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status ServiceUnavailable, got %v", w.Code)
	}
}

func TestHandleListSplitsWithoutDB(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("GET", "/api/splits", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status ServiceUnavailable, got %v", w.Code)
	}
}

func TestHandleWebInterface(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	api.handleWebInterface(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "text/html; charset=utf-8" {
		t.Errorf("Expected Content-Type text/html; charset=utf-8, got %v", contentType)
	}

	// Check that the response contains key elements
	body := w.Body.String()
	expectedStrings := []string{
		"<!DOCTYPE html>",
		"Tibia Agent",
		"session_data",
		"splitLoot",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(body, expected) {
			t.Errorf("Expected response to contain '%s'", expected)
		}
	}
}
