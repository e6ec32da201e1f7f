// Vancouver is a dependency-audit policy checker: it proves, from an
// audits ledger and config-declared exemptions, that every dependency in
// a lock file satisfies its required criteria.
package main

import (
	"fmt"
	"os"

	"github.com/initializ/vancouver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}
