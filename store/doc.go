// SPDX-License-Identifier: MIT

// Package store holds the reference-data sources an analysis.Engine reads from.
//
//   - yamlstore: a dataset file on disk, reloaded when it changes.
//   - pgstore: PostgreSQL tables read in one read-only transaction.
//
// Both yield *assemble.Snapshot values whose Version changes whenever the
// content does, so prepared tables can be cached by version.
package store
