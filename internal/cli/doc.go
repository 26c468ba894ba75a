// Package cli renders the benchmark in the terminal: the host header, a
// spinner while the driver works, and the final report.
//
// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
package cli
