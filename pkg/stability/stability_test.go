package stability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateDecodesFirstArtifact(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody textToImageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"artifacts":[{"base64":"AAAA"}]}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{APIKey: "secret", URL: server.URL}, WithHTTPClient(server.Client()))

	raw, err := c.Generate(context.Background(), "a red bicycle")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// "AAAA" is the base64 form of three zero bytes.
	if len(raw) != 3 || raw[0] != 0 || raw[1] != 0 || raw[2] != 0 {
		t.Fatalf("unexpected artifact bytes: %v", raw)
	}

	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if len(gotBody.TextPrompts) != 1 || gotBody.TextPrompts[0].Text != "a red bicycle" {
		t.Fatalf("unexpected prompts: %#v", gotBody.TextPrompts)
	}
	if gotBody.CFGScale != 7 || gotBody.Height != 512 || gotBody.Width != 512 || gotBody.Samples != 1 || gotBody.Steps != 30 {
		t.Fatalf("generation parameters drifted: %#v", gotBody)
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{URL: server.URL}, WithHTTPClient(server.Client()))

	_, err := c.Generate(context.Background(), "a red bicycle")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Generate() error = %v, want ErrMissingAPIKey", err)
	}
	if requests != 0 {
		t.Fatalf("no request may be made without a key, got %d", requests)
	}
}

func TestGenerateNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{APIKey: "secret", URL: server.URL}, WithHTTPClient(server.Client()))

	_, err := c.Generate(context.Background(), "a red bicycle")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("Generate() error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestGenerateEmptyArtifacts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"artifacts":[]}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{APIKey: "secret", URL: server.URL}, WithHTTPClient(server.Client()))

	_, err := c.Generate(context.Background(), "a red bicycle")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Generate() error = %v, want ErrMalformedResponse", err)
	}
}

func TestGenerateInvalidBase64(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"artifacts":[{"base64":"%%%%"}]}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{APIKey: "secret", URL: server.URL}, WithHTTPClient(server.Client()))

	_, err := c.Generate(context.Background(), "a red bicycle")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Generate() error = %v, want ErrMalformedResponse", err)
	}
}
