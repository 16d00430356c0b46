// Package commands defines the phonefmt CLI.
//
// Commands
//
//   - format     Feed raw inputs through a formatting session and print each result
//   - countries  List directory entries matching a query
//   - serve      Load the catalog and serve /metrics, /health and /ready
//
// The root command loads configuration and builds the logger before any
// subcommand runs. The catalog source comes from configuration and may be
// the embedded dataset, a file, an HTTP endpoint or a SQL table, optionally
// behind a Redis cache.
package commands
