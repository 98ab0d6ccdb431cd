// Package filesystem resolves local question files named by file:// URIs or paths.
package filesystem
