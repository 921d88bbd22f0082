// Package command implements batch geometry commands for diagram editing:
// resizing a group of elements to a common dimension and aligning a group
// to a shared edge.
//
// Each command follows the reversible lifecycle Created → Executed ⇄
// {Undone, Redone}. Executing a command produces two parallel artifacts
// built from one shared propose-then-validate step: an immediate local
// geometry delta for the in-memory view, and a mirrored operation record
// carrying the same final bounds for the external authority. Undo and redo
// on the command itself are pass-throughs returning the root unchanged; the
// emitted deltas are independently reversible actions and the surrounding
// dispatcher (see the dispatch package) carries their reversal.
//
// The reduction and selection policies applied during a command are named
// enum values resolved through fixed lookup tables, never closures, so
// recorded operations stay serializable and replayable across undo/redo
// and persistence boundaries.
//
// Expected edge cases never raise: unresolvable ids, elements failing a
// capability check, and per-element rejections by the movement restrictor
// are silently dropped from the batch. Batches are not atomic.
package command
