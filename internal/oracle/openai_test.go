package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", `[1,2]`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fixedOracle struct {
	raw json.RawMessage
	err error
}

func (f fixedOracle) Infer(context.Context, string) (json.RawMessage, error) {
	return f.raw, f.err
}

func TestInferInto(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	o := fixedOracle{raw: json.RawMessage(`{"name":"acme"}`)}
	if err := InferInto(context.Background(), o, "prompt", &out); err != nil {
		t.Fatalf("InferInto: %v", err)
	}
	if out.Name != "acme" {
		t.Errorf("name = %q", out.Name)
	}
}

func TestInferIntoPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	var out map[string]any
	if err := InferInto(context.Background(), fixedOracle{err: boom}, "p", &out); !errors.Is(err, boom) {
		t.Errorf("want wrapped boom, got %v", err)
	}

	if err := InferInto(context.Background(), fixedOracle{raw: json.RawMessage(`not json`)}, "p", &out); err == nil {
		t.Error("want decode error for invalid JSON")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("NewClient without api key should fail")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err != nil {
		t.Errorf("NewClient with api key: %v", err)
	}
}
