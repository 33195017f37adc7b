// Command admin provides account and schema management for Skill Swap operators.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(&cliApp{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
