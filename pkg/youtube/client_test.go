package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
)

func TestFindTrailerRequest(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"items":[{"id":{"kind":"youtube#video","videoId":"abc123"}}]}`), nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://yt.test/"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	videoID, err := client.FindTrailer(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("find trailer: %v", err)
	}
	if videoID != "abc123" {
		t.Fatalf("unexpected video id %q", videoID)
	}

	if captured.Method != http.MethodGet {
		t.Fatalf("unexpected method %s", captured.Method)
	}
	if got := captured.URL.Scheme + "://" + captured.URL.Host + captured.URL.Path; got != "http://yt.test/youtube/v3/search" {
		t.Fatalf("unexpected URL %q", got)
	}
	q := captured.URL.Query()
	expected := map[string]string{
		"part":       "snippet",
		"q":          "Inception trailer",
		"type":       "video",
		"maxResults": "1",
		"key":        "test-key",
	}
	for key, want := range expected {
		if got := q.Get(key); got != want {
			t.Fatalf("query %s: expected %q got %q", key, want, got)
		}
	}
}

func TestFindTrailerNoResults(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"items":[]}`), nil
	})
	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	videoID, err := client.FindTrailer(context.Background(), "Obscure Film")
	if err != nil {
		t.Fatalf("find trailer: %v", err)
	}
	if videoID != "" {
		t.Fatalf("expected empty video id, got %q", videoID)
	}
}

func TestFindTrailerTranslatesFailures(t *testing.T) {
	tests := []struct {
		name string
		rt   roundTripFunc
	}{
		{
			name: "network",
			rt: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
		},
		{
			name: "status",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, `{"error":{"message":"quotaExceeded"}}`), nil
			},
		},
		{
			name: "decode",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `not-json`), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: tt.rt}))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.FindTrailer(context.Background(), "Heat")
			if err == nil {
				t.Fatal("expected error")
			}
			if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
				t.Fatalf("expected dependency error, got %v", err)
			}
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestFindTrailerRequiresTitle(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.FindTrailer(context.Background(), " "); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}
