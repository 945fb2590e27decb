// Command swarmctl sends messages to the agent swarm from a terminal.
//
// Usage:
//
//	swarmctl ask "I can't sign in" --user alice
//	swarmctl classify "What are the fees of the Maquininha Smart?"
//	swarmctl account alice --seed 42
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
