// Package main is the entry point for the perfeq CLI.
package main

import "perfeq.dev/pkg/perfeq/cmd"

func main() {
	cmd.Execute()
}
