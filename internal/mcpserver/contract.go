package mcpserver

// SubmissionGuide describes what a rigorous startup submission should cover
// so the analysis pipeline can extract a complete snapshot.
const SubmissionGuide = `# Driftwatch Submission Guide

Driftwatch turns a founder's free-form description into a versioned,
structured snapshot and reviews it for rigor. The more of the following the
submission covers, the fewer blockers the review will raise.

## Cover these dimensions

1. **Problem** — the core problem being solved, for whom it hurts today.
2. **Target user** — WHO (role/person), WHERE (context/environment), and
   WHAT they are doing (behavior/job). "Startups" or "students" alone will
   be flagged as a blocker; "early-stage B2B SaaS founders at seed/pre-seed
   preparing their first pitch deck" will not.
3. **Solution and value proposition** — what is offered and why it wins.
4. **Distribution** — ONE primary channel with a specific, executable plan.
   Allowed channel types: cold_outreach, community, paid_ads, partnerships,
   marketplace, product_led. "Go viral" or "social media" without a
   platform and strategy counts as vague and blocks the review.
5. **Hypothesis** — a falsifiable statement following the template
   "For <target_user>, if we offer <solution> through <channel>, then
   within <timeframe> we expect <measurable change in <metric>>."
   Vanity metrics (likes, views) and unrealistic timeframes are flagged.
6. **Risks and next steps** — top risks, technical feasibility notes, and
   declared next steps, as lists.

## Versioning

Every submission for the same startup_id creates a new snapshot version.
Changed tracked fields (target_user, problem, solution,
primary_channel_type, hypothesis) are classified against the previous
version as a major_change (pivot) or a minor_refinement (rewording).

## Status

The analysis returns OK with three proposed validation experiments, or
BLOCKED when the target user or distribution channel fails the rigor
checks. A BLOCKED run proposes no experiments; fix the blockers and
resubmit.
`
