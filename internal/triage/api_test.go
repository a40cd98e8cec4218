package triage

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine, elicitor := newTestEngine(t, false)
	handler := NewHandler(engine, elicitor, nil)
	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "Disease AI running" {
		t.Errorf("Unexpected status message: %q", body["status"])
	}
}

func TestPredictEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/predict", map[string]any{
		"symptoms": []string{"sốt", "ho", "đau họng"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Results []Prediction `json:"results"`
		Related []string     `json:"related"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(body.Results) == 0 || len(body.Results) > 3 {
		t.Fatalf("Expected 1-3 results, got %d", len(body.Results))
	}
	if len(body.Related) > 7 {
		t.Errorf("Expected at most 7 related suggestions, got %d", len(body.Related))
	}
	for _, p := range body.Results {
		if p.Disease == "" || p.Specialist == "" || p.Description == "" {
			t.Errorf("Prediction has blank fields: %+v", p)
		}
	}
}

func TestPredictEmptyInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"no symptoms key", map[string]any{}},
		{"empty list", map[string]any{"symptoms": []string{}}},
		{"whitespace only", map[string]any{"symptoms": []string{" ", "\t"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/predict", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", resp.StatusCode)
			}

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body["code"] != "EMPTY_INPUT" {
				t.Errorf("Expected code EMPTY_INPUT, got %v", body["code"])
			}
		})
	}
}

func TestPredictMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/predict", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", resp.StatusCode)
	}
}

func TestRelatedEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/related", map[string]any{
		"symptoms": []string{"đau bụng", "ợ chua"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Count   int      `json:"count"`
		Related []string `json:"related"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != len(body.Related) {
		t.Errorf("count %d does not match list length %d", body.Count, len(body.Related))
	}
	want := []string{"buồn nôn", "chán ăn"}
	if len(body.Related) != len(want) {
		t.Fatalf("Related = %v, want %v", body.Related, want)
	}
	for i := range want {
		if body.Related[i] != want[i] {
			t.Errorf("Related[%d] = %q, want %q", i, body.Related[i], want[i])
		}
	}
}

func TestAllSymptomsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/all")
	if err != nil {
		t.Fatalf("GET /all failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Related []string `json:"related"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Related) == 0 {
		t.Fatal("Expected non-empty vocabulary")
	}
	for i := 1; i < len(body.Related); i++ {
		if body.Related[i-1] >= body.Related[i] {
			t.Errorf("Vocabulary not sorted: %q before %q", body.Related[i-1], body.Related[i])
		}
	}
}
