// sattva is the headless state daemon for the coherence companion. It hosts
// the state core behind an HTTP API plus a WebSocket feed, fires scheduled
// calls, and persists state to a quota-bounded file store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
