// Package lca is an in-memory life cycle assessment engine: it turns a
// technology table and an intervention table into an impact score and a
// per-process contribution breakdown.
//
// What one calculation does:
//
//	raw tables ──units──▶ A, B ──allocation──▶ A′, B′
//	A′·s = f  ──scaling──▶ s
//	g = B′·s, G = B′·diag(s) ──impact──▶ score, contributions
//
// Under the hood the work is split across small packages:
//
//	matrix/     dense matrices, products, LUP solve with partial pivoting
//	core/       flows, processes, characterization table, typed errors
//	units/      unit normalization incl. material-specific forestry factors
//	assemble/   raw tables → normalized A and B
//	allocation/ split multi-output processes into single-output columns
//	scaling/    demand vector and A·s = f
//	impact/     inventory, impact score, process contribution
//	analysis/   the end-to-end pipeline with a per-version cache
//	store/      YAML file and PostgreSQL reference data sources
//	report/     pie-chart slices and CSV export
//	server/     HTTP boundary (echo)
//
// Quick example, A = diag(2,3), f = [4 9]:
//
//	s = [2 3]
//
// Binaries live under cmd/: lca (command line) and lcad (HTTP daemon).
//
//	go install github.com/katalvlaran/lca/cmd/...
package lca
