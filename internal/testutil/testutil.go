// Package testutil provides shared test helpers: a temporary snapshot store
// and a scripted oracle that answers prompts with canned JSON.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/driftlab/driftwatch/internal/store"
)

// TestStore creates a temporary SQLite store that is automatically cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "driftwatch-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type scriptedReply struct {
	substr string
	json   string
	err    error
}

// ScriptedOracle is a deterministic Oracle stub. Replies are matched by
// prompt substring in registration order; an unmatched prompt is an error
// so tests notice unexpected oracle calls.
type ScriptedOracle struct {
	mu      sync.Mutex
	replies []scriptedReply
	calls   []string
}

// NewScriptedOracle creates an empty scripted oracle.
func NewScriptedOracle() *ScriptedOracle {
	return &ScriptedOracle{}
}

// Reply registers a canned JSON reply for prompts containing substr.
func (o *ScriptedOracle) Reply(substr, jsonReply string) *ScriptedOracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replies = append(o.replies, scriptedReply{substr: substr, json: jsonReply})
	return o
}

// Fail registers an error for prompts containing substr.
func (o *ScriptedOracle) Fail(substr string, err error) *ScriptedOracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replies = append(o.replies, scriptedReply{substr: substr, err: err})
	return o
}

// Infer implements oracle.Oracle.
func (o *ScriptedOracle) Infer(_ context.Context, prompt string) (json.RawMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, prompt)

	for _, r := range o.replies {
		if strings.Contains(prompt, r.substr) {
			if r.err != nil {
				return nil, r.err
			}
			return json.RawMessage(r.json), nil
		}
	}
	return nil, fmt.Errorf("scripted oracle: no reply for prompt %q", truncate(prompt, 80))
}

// CallCount returns how many times Infer was invoked.
func (o *ScriptedOracle) CallCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

// Calls returns a copy of all received prompts.
func (o *ScriptedOracle) Calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.calls))
	copy(out, o.calls)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
