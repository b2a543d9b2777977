// Package main provides the rello CLI.
package main

import "github.com/mesh-intelligence/rello/internal/cli"

func main() {
	cli.Execute()
}
