package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"biblib/core/workspace"
)

// PlanRenames turns candidates into rename actions. Every key of the store must appear as
// a candidate, including keys that already match their target, since an unchanged key
// claims its own name. The plan is returned even when it has collisions; the
// error is then of kind workspace.ErrCollision.
func PlanRenames(candidates []Candidate) (*ReconcilePlan, error) {
	plan := &ReconcilePlan{Actions: []Action{}, Collisions: []Collision{}}
	plan.Summary.TotalItems = len(candidates)

	claims := make(map[string][]string, len(candidates))
	var targets []string
	for _, c := range candidates {
		if _, ok := claims[c.Target]; !ok {
			targets = append(targets, c.Target)
		}
		claims[c.Target] = append(claims[c.Target], c.Key)

		if c.Key == c.Target {
			plan.Summary.Unchanged++
			continue
		}
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionRename,
			Key:    c.Key,
			NewKey: c.Target,
			Reason: "key differs from generated label",
		})
		plan.Summary.RenameActions++
	}

	for _, target := range targets {
		keys := dedupe(claims[target])
		if len(keys) > 1 {
			sort.Strings(keys)
			plan.Collisions = append(plan.Collisions, Collision{Target: target, Keys: keys})
		}
	}
	plan.Summary.Collisions = len(plan.Collisions)

	if len(plan.Collisions) > 0 {
		descs := make([]string, 0, len(plan.Collisions))
		for _, c := range plan.Collisions {
			descs = append(descs, fmt.Sprintf("%s <- %s", c.Target, strings.Join(c.Keys, ", ")))
		}
		return plan, workspace.NewError(workspace.ErrCollision, "", fmt.Errorf("%s", strings.Join(descs, "; ")))
	}
	return plan, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, mutator Mutator, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if len(plan.Collisions) > 0 {
		return 0, workspace.NewError(workspace.ErrCollision, "", fmt.Errorf("%d colliding targets", len(plan.Collisions)))
	}
	if plan.Empty() {
		return 0, nil
	}

	renames := plan.Renames()
	if err := mutator.ApplyRenames(ctx, renames); err != nil {
		return 0, fmt.Errorf("failed to apply %d renames: %w", len(renames), err)
	}
	return len(renames), nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
