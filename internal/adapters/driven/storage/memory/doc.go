// Package memory provides in-process implementations of the driven storage
// ports. They back tests and the --no-cache flag of the CLI.
package memory
