package genai

import (
	"errors"
	"testing"
)

func TestEndpoint_String(t *testing.T) {
	want := []string{"generateContent", "streamGenerateContent", "countTokens", "embedContent", "batchEmbedContents"}
	eps := Endpoints()
	if len(eps) != len(want) {
		t.Fatalf("expected %d endpoints, got %d", len(want), len(eps))
	}
	for i, ep := range eps {
		if ep.String() != want[i] {
			t.Errorf("endpoint %d: expected %s, got %s", i, want[i], ep.String())
		}
	}
	if got := Endpoint(9).String(); got != "Endpoint(9)" {
		t.Errorf("unexpected string for invalid endpoint: %s", got)
	}
}

func TestParseEndpoint(t *testing.T) {
	for _, ep := range Endpoints() {
		got, err := ParseEndpoint(ep.String())
		if err != nil {
			t.Fatalf("ParseEndpoint(%s): %v", ep, err)
		}
		if got != ep {
			t.Errorf("expected %v, got %v", ep, got)
		}
	}

	if _, err := ParseEndpoint("listModels"); !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("expected ErrUnknownEndpoint, got %v", err)
	}
}
