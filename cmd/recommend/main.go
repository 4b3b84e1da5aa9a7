// Package main provides a one-shot terminal front end:
//
//	recommend [flags] the matrix
//	recommend history [flags]
//
// The root command prints the recommendation list for a query and records the
// search in the configured history, exactly like the HTTP API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
