package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/testutil"
)

func TestValidateTargetUserShortCircuitsWithoutOracle(t *testing.T) {
	o := testutil.NewScriptedOracle()

	// "héll" is four characters; byte length must not sneak it past the cut.
	for _, tu := range []*string{nil, strPtr(""), strPtr("   "), strPtr("ppl"), strPtr("  dev "), strPtr("héll")} {
		verdict, err := ValidateTargetUser(context.Background(), o, models.Snapshot{TargetUser: tu})
		if err != nil {
			t.Fatalf("ValidateTargetUser(%v): %v", tu, err)
		}
		if verdict.IsValid {
			t.Errorf("target user %v should be invalid", tu)
		}
		if !strings.Contains(verdict.Reason, "too short") {
			t.Errorf("reason = %q, want short-user message", verdict.Reason)
		}
		if verdict.ImprovedTargetUser == nil {
			t.Error("short target user should come with a suggestion")
		}
	}

	if n := o.CallCount(); n != 0 {
		t.Errorf("oracle calls = %d, want 0 for short target users", n)
	}
}

func TestValidateTargetUserDelegatesToOracle(t *testing.T) {
	o := testutil.NewScriptedOracle().
		Reply(userMarker, `{"is_valid": false, "reason": "No WHERE context.", "improved_target_user": "indie game developers shipping on Steam"}`)

	verdict, err := ValidateTargetUser(context.Background(), o,
		models.Snapshot{TargetUser: strPtr("game developers")})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.IsValid {
		t.Error("verdict should follow the oracle's judgment")
	}
	if verdict.ImprovedTargetUser == nil || !strings.Contains(*verdict.ImprovedTargetUser, "Steam") {
		t.Errorf("improved = %v", verdict.ImprovedTargetUser)
	}
	if o.CallCount() != 1 {
		t.Errorf("oracle calls = %d, want 1", o.CallCount())
	}
}
