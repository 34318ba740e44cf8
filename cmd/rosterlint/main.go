// Command rosterlint parses the roster spreadsheet and prints the logins
// that would be checked, for validating roster edits before the next run.
package main

import (
	"fmt"
	"os"

	"github.com/onnwee/streamwatch/roster"
)

func main() {
	path := os.Getenv("ROSTER_PATH")
	if path == "" {
		path = "streamers.xlsx"
	}
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	logins, err := roster.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rosterlint: %v\n", err)
		os.Exit(1)
	}
	for _, l := range logins {
		fmt.Println(l)
	}
	fmt.Fprintf(os.Stderr, "%d eligible channel(s)\n", len(logins))
}
