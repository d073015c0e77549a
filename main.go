// Package main provides the entry point for capdecode.
// capdecode decodes Morello capabilities under each published encoding.
//
// For the full CLI, use: go run ./cmd/capdecode
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/capdecode/capability"
)

func main() {
	fmt.Println("capdecode - Morello capability decoder")
	fmt.Println("")
	fmt.Println("Usage: capdecode [flags] CAPABILITY")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  --spec-version   Capability encoding version")
	fmt.Println("  --format         Output format (text, json or yaml)")
	fmt.Println("  --config         Path to a YAML or JSON config file")
	fmt.Println("  --trace          Log intermediate bounds-correction values")
	fmt.Println("  --list-versions  List the supported versions")
	fmt.Println("")
	fmt.Println("Versions:")
	for _, name := range capability.SpecVersionNames() {
		fmt.Println("  " + name)
	}
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/capdecode' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/capdecode' instead.")
	}
}
