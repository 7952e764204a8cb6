package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/testutil"
)

func TestEnforceChannelEmptyInputShortCircuits(t *testing.T) {
	o := testutil.NewScriptedOracle()
	ct := models.ChannelPaidAds
	snap := models.Snapshot{PrimaryChannelType: &ct, PrimaryChannelDescription: strPtr("   ")}

	got, verdict, err := EnforceChannel(context.Background(), o, snap, "  ")
	if err != nil {
		t.Fatalf("EnforceChannel: %v", err)
	}
	if len(verdict.Issues) != 1 || !strings.Contains(verdict.Issues[0], "No distribution channel") {
		t.Errorf("issues = %v", verdict.Issues)
	}
	if got.PrimaryChannelType != nil || got.PrimaryChannelDescription != nil {
		t.Errorf("channel fields not cleared: %v %v", got.PrimaryChannelType, got.PrimaryChannelDescription)
	}
	if o.CallCount() != 0 {
		t.Errorf("oracle calls = %d, want 0 for empty channel input", o.CallCount())
	}
}

func TestEnforceChannelOverwritesDraft(t *testing.T) {
	o := testutil.NewScriptedOracle().Reply(channelMarker, `{
		"primary_channel_type": "community",
		"primary_channel_description": "Weekly posts in r/bootstrapped with build-in-public updates",
		"other_channels": ["cold_outreach"],
		"issues": []
	}`)
	ct := models.ChannelColdOutreach
	snap := models.Snapshot{
		PrimaryChannelType:        &ct,
		PrimaryChannelDescription: strPtr("post on reddit sometimes"),
	}

	got, verdict, err := EnforceChannel(context.Background(), o, snap, "raw founder text")
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimaryChannelType == nil || *got.PrimaryChannelType != models.ChannelCommunity {
		t.Errorf("channel type = %v, want community", got.PrimaryChannelType)
	}
	if got.PrimaryChannelDescription == nil || !strings.Contains(*got.PrimaryChannelDescription, "r/bootstrapped") {
		t.Errorf("description = %v, want verdict's description", got.PrimaryChannelDescription)
	}
	if len(verdict.OtherChannels) != 1 {
		t.Errorf("other channels = %v", verdict.OtherChannels)
	}

	// The draft's own description, not the raw input, is what gets judged.
	prompt := o.Calls()[0]
	if !strings.Contains(prompt, "post on reddit sometimes") {
		t.Errorf("prompt should carry the draft description, got %q", prompt)
	}
}

func TestEnforceChannelUnknownEnumCoercedToNil(t *testing.T) {
	o := testutil.NewScriptedOracle().Reply(channelMarker, `{
		"primary_channel_type": "telepathy",
		"primary_channel_description": "thoughts and prayers",
		"other_channels": [],
		"issues": ["Channel is not actionable."]
	}`)

	got, verdict, err := EnforceChannel(context.Background(), o,
		models.Snapshot{PrimaryChannelDescription: strPtr("we will just be everywhere")}, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.PrimaryChannelType != nil {
		t.Errorf("unknown enum should coerce to nil, got %v", *got.PrimaryChannelType)
	}
	if len(verdict.Issues) != 1 {
		t.Errorf("issues = %v, want the oracle's issue preserved", verdict.Issues)
	}
}

func TestEnforceHypothesisOverwritesDraft(t *testing.T) {
	o := testutil.NewScriptedOracle().Reply(hypothesisMarker, hypothesisOKReply)
	snap := models.Snapshot{
		TargetUser: strPtr("accountants"),
		Solution:   strPtr("reconciliation assistant"),
		Hypothesis: strPtr("people will like it"),
		Metric:     strPtr("likes"),
	}

	got, verdict, err := EnforceHypothesis(context.Background(), o, snap)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hypothesis == nil || !strings.Contains(*got.Hypothesis, "demo booking rate") {
		t.Errorf("hypothesis = %v, want rewritten template form", got.Hypothesis)
	}
	if got.Metric == nil || *got.Metric != "demo booking rate" {
		t.Errorf("metric = %v, want overwrite", got.Metric)
	}
	if got.Timeframe == nil || *got.Timeframe != "4 weeks" {
		t.Errorf("timeframe = %v, want overwrite", got.Timeframe)
	}
	if len(verdict.Issues) != 0 {
		t.Errorf("issues = %v", verdict.Issues)
	}
}
