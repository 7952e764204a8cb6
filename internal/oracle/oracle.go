// Package oracle abstracts the natural-language inference capability the
// analysis pipeline depends on. The pipeline treats it as an opaque,
// fallible function from a prompt to a structured JSON value; production
// uses an OpenAI-compatible backend, tests use a scripted stub.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
)

// Oracle answers a natural-language prompt with a best-effort JSON value.
// A failed call or an unparseable reply is an error; the caller treats it
// as fatal for the enclosing request.
type Oracle interface {
	Infer(ctx context.Context, prompt string) (json.RawMessage, error)
}

// InferInto runs the prompt and unmarshals the reply into out.
func InferInto(ctx context.Context, o Oracle, prompt string, out any) error {
	raw, err := o.Infer(ctx, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("oracle: decode reply: %w", err)
	}
	return nil
}
