package main

import (
	"fmt"
	"os"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/cli"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/tui"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	// Handle TUI mode (no args or ui/tui command)
	if len(os.Args) < 2 || os.Args[1] == "ui" || os.Args[1] == "tui" {
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	c := cli.New(version)
	c.Run()
}
