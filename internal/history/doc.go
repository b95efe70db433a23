// Package history records validation runs so later runs can be compared
// against earlier ones.
//
// A Run is one validation of one document: a uuid, the document URI, the
// time it was recorded and the per-collection results. Two Store
// implementations exist:
//
//   - NewMemory: ephemeral, used by tests and by single invocations that
//     only need a comparison within the process.
//   - NewSQLite: a file-backed ledger (pure Go sqlite driver) used by
//     `varcar validate --record` and `varcar history`.
//
// Compare turns two runs into a list of regressions: any collection whose
// broken, circular, external or white count went up.
package history
