package pipeline

import (
	"context"
	"fmt"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
)

const driftPrompt = `Compare these two values for the snapshot field %q:
Old: %s
New: %s

Is this a "major_change" (pivot: fundamentally different audience, problem,
or approach) or a "minor_refinement" (clarification or rewording without a
fundamental shift)?

Reply with JSON:
{
  "classification": "major_change" or "minor_refinement",
  "comment": "one-line explanation of the change"
}`

// driftFields is the fixed set of tracked fields, in emission order.
// DriftItems always come out in this order regardless of how the oracle is
// consulted.
var driftFields = []struct {
	name string
	get  func(models.Snapshot) *string
}{
	{"target_user", func(s models.Snapshot) *string { return s.TargetUser }},
	{"problem", func(s models.Snapshot) *string { return s.Problem }},
	{"solution", func(s models.Snapshot) *string { return s.Solution }},
	{"primary_channel_type", func(s models.Snapshot) *string {
		if s.PrimaryChannelType == nil {
			return nil
		}
		v := string(*s.PrimaryChannelType)
		return &v
	}},
	{"hypothesis", func(s models.Snapshot) *string { return s.Hypothesis }},
}

type driftReply struct {
	Classification string  `json:"classification"`
	Comment        *string `json:"comment"`
}

// AnalyzeDrift compares the previously committed snapshot against the
// enforced draft and classifies every changed tracked field as a pivot or a
// refinement. With no prior snapshot the result is empty by definition.
func AnalyzeDrift(ctx context.Context, o oracle.Oracle, prev *models.Snapshot, next models.Snapshot) ([]models.DriftItem, error) {
	items := []models.DriftItem{}
	if prev == nil {
		return items, nil
	}

	for _, f := range driftFields {
		before := f.get(*prev)
		after := f.get(next)
		if equalPtr(before, after) {
			continue
		}

		prompt := fmt.Sprintf(driftPrompt, f.name, promptValue(before), promptValue(after))
		var reply driftReply
		if err := oracle.InferInto(ctx, o, prompt, &reply); err != nil {
			return nil, fmt.Errorf("drift %s: %w", f.name, err)
		}
		// Unlike channel types there is no null state to fall back to, so
		// an out-of-enum classification is an oracle error.
		cls, ok := models.ParseDriftClassification(reply.Classification)
		if !ok {
			return nil, fmt.Errorf("drift %s: oracle returned unknown classification %q", f.name, reply.Classification)
		}

		items = append(items, models.DriftItem{
			Field:          f.name,
			Before:         before,
			After:          after,
			Classification: cls,
			Comment:        reply.Comment,
		})
	}
	return items, nil
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func promptValue(s *string) string {
	if s == nil {
		return "<unset>"
	}
	return fmt.Sprintf("%q", *s)
}
