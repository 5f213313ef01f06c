// Package runs journals pipeline invocations in a local SQLite database so
// past outcomes survive across sessions and show up in the CLI history.
package runs
