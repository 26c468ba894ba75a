// Package logging provides the logging interface used across the benchmark.
// Components depend on Logger rather than on a concrete backend; the default
// backend is zerolog writing to stderr, so log lines never interleave with
// the report printed on stdout.
package logging
