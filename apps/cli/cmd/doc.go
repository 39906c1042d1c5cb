// Package cmd implements the httprun CLI commands.
package cmd
