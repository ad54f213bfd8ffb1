package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// searchStub answers exact and approximate queries from fixed tables.
func searchStub(exact, approx map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		body := `{"response":{"numFound":0,"docs":[]}}`
		if strings.HasSuffix(q, `"`) {
			if b, ok := exact[q]; ok {
				body = b
			}
		} else if b, ok := approx[q]; ok {
			body = b
		}
		fmt.Fprint(w, body)
	}
}

func newTestResolver(t *testing.T, h http.Handler, log *zap.Logger) *Resolver {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewResolver(NewClient(log, WithBaseURL(srv.URL), WithRateLimit(0)), log)
}

func TestResolver_JournalID(t *testing.T) {
	exact := map[string]string{
		`title_s:"Hearing Research"`: `{"response":{"numFound":1,"docs":[{"docid":1001,"title_s":"Hearing Research"}]}}`,
		`title_s:"Nature"`: `{"response":{"numFound":2,"docs":[
			{"docid":1,"title_s":"Nature Physics"},
			{"docid":2,"title_s":"Nature"}]}}`,
	}
	approx := map[string]string{
		`title_t:(Journal of Sound)`: `{"response":{"numFound":2,"docs":[
			{"docid":10,"title_s":"Applied Acoustics"},
			{"docid":11,"title_s":"Journal of Sound and Vibration"}]}}`,
		`title_t:(Zzyzx)`: `{"response":{"numFound":1,"docs":[{"docid":12,"title_s":"Quantum Biology"}]}}`,
	}
	r := newTestResolver(t, searchStub(exact, approx), zaptest.NewLogger(t))

	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"Hearing Research", "1001", true},
		{"Nature", "2", true},
		{"Journal of Sound", "11", true},
		{"Zzyzx", "", false},
		{"Unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := r.JournalID(context.Background(), tt.name)
		if id != tt.id || ok != tt.ok {
			t.Errorf("JournalID(%q) = %q, %v; want %q, %v", tt.name, id, ok, tt.id, tt.ok)
		}
	}
}

func TestResolver_StructureID(t *testing.T) {
	exact := map[string]string{
		`name_s:"LaMcube"`: `{"response":{"numFound":1,"docs":[{"docid":"531","name_s":"LaMcube"}]}}`,
	}
	r := newTestResolver(t, searchStub(exact, nil), zaptest.NewLogger(t))
	if id, ok := r.StructureID(context.Background(), "LaMcube"); !ok || id != "531" {
		t.Errorf("StructureID = %q, %v", id, ok)
	}
}

func TestResolver_LookupFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), zap.New(core))

	if _, ok := r.JournalID(context.Background(), "Anything"); ok {
		t.Errorf("expected not found on failure")
	}
	if logs.FilterMessage("Lookup failed").Len() != 1 {
		t.Errorf("expected lookup warning")
	}
}

func TestSimilarity(t *testing.T) {
	if Similarity("Nature", "nature") != 1 {
		t.Errorf("similarity must ignore case")
	}
	if Similarity("Journal of Sound", "Journal of Sound and Vibration") <= Similarity("Journal of Sound", "Applied Acoustics") {
		t.Errorf("unexpected ordering")
	}
}
