// Package orchestration drives one benchmark run: it loads the dataset,
// times the sequential baseline, sweeps the parallel reducer over the
// configured worker counts, and verifies every parallel total against the
// baseline. Presentation stays outside the package behind the Observer and
// ResultPresenter interfaces.
package orchestration
