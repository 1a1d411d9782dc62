package report

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPReporter_Report(t *testing.T) {
	var gotBody []byte
	var gotContentType, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	rep, err := NewHTTPReporter(HTTPConfig{Endpoint: srv.URL, Token: "sekret"})
	if err != nil {
		t.Fatalf("NewHTTPReporter error: %v", err)
	}

	f := FailureFor("id-1", "database", "main.go:42", errors.New("connection refused"), false)
	if err := rep.Report(f); err != nil {
		t.Fatalf("Report error: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotAuth != "Bearer sekret" {
		t.Errorf("Authorization = %q, want Bearer token", gotAuth)
	}

	var got Failure
	if err := json.Unmarshal(gotBody, &got); err != nil {
		t.Fatalf("Unmarshal posted body: %v", err)
	}
	if got.Handler != "database" {
		t.Errorf("posted handler = %q, want %q", got.Handler, "database")
	}
	if got.Message != f.Message {
		t.Errorf("posted message = %q, want %q", got.Message, f.Message)
	}
}

func TestHTTPReporter_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rep, err := NewHTTPReporter(HTTPConfig{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("NewHTTPReporter error: %v", err)
	}

	err = rep.Report(FailureFor("", "x", "", errors.New("boom"), false))
	if err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestHTTPReporter_NoEndpoint(t *testing.T) {
	_, err := NewHTTPReporter(HTTPConfig{})
	if err != ErrNoEndpoint {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}
}

func TestHTTPReporter_UnreachableEndpoint(t *testing.T) {
	rep, err := NewHTTPReporter(HTTPConfig{Endpoint: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewHTTPReporter error: %v", err)
	}

	err = rep.Report(FailureFor("", "x", "", errors.New("boom"), false))
	if err == nil {
		t.Error("expected error for unreachable endpoint")
	}
}
