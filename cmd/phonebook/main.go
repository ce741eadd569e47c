package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/phonebook/internal/cli"
	"github.com/idilsaglam/phonebook/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	base := flag.String("base", defaultBaseURL(), "base URL of the persons collection")
	addr := flag.String("addr", ":3001", "listen address for `serve`")
	theme := flag.String("theme", "classic", "output theme (classic|neon|mono)")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Parse()

	ui.SetColorForcing(false, *noColor)
	ui.SetTheme(*theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		BaseURL: *base,
		Addr:    *addr,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

func defaultBaseURL() string {
	if v := os.Getenv("PHONEBOOK_URL"); v != "" {
		return v
	}
	return "http://localhost:3001/api/persons"
}
