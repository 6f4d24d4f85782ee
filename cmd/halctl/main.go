// Command halctl runs operator tasks against the HAL directory store:
// schema migration, fixture seeding, CSV import and rating reconciliation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
