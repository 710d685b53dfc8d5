// Package main implements the rewriter command, which regenerates the title,
// description and summary of stored records with a language model.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
