// Package reconcile compares the key sets of the three bibliography stores and plans
// the renames that bring keys in line with their generated labels.
//
// # Architecture
//
// The package consists of three parts:
//
// 1. Engine: Check builds the union of keys of the entry store, the identifier collection
//    and the add-order list, records per-key presence and reports, for every source, the
//    keys it lacks, the keys only it holds and its duplicates.
//
// 2. Plan: PlanRenames turns (current key, generated label) candidates into rename actions
//    and detects collisions, either two keys receiving the same label or a label equal to
//    an unchanged key. ApplyPlan hands the renames to a Mutator only when the caller
//    confirmed and is not in dry-run mode.
//
// 3. Cache: a TTL cache with stampede protection, used by the HTTP reports so that
//    concurrent requests share one workspace load.
//
// # Usage Example
//
//	report := reconcile.Check(lib.Keys(), ids.Keys(), order)
//	if !report.Consistent() {
//	    // report.Library.MissingFrom, report.Order.OnlyIn, ...
//	}
//
//	plan, err := reconcile.PlanRenames(candidates)
//	executed, err := reconcile.ApplyPlan(ctx, mutator, plan, reconcile.ReconcileOptions{Confirmed: true})
package reconcile
