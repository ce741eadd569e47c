package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/idilsaglam/phonebook/internal/engine"
	"github.com/idilsaglam/phonebook/internal/notify"
	"github.com/idilsaglam/phonebook/internal/server"
	"github.com/idilsaglam/phonebook/internal/store/memstore"
	"github.com/idilsaglam/phonebook/internal/store/reststore"
	"github.com/idilsaglam/phonebook/internal/tui"
	"github.com/idilsaglam/phonebook/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	BaseURL string // persons collection endpoint
	Addr    string // listen address for `serve`
}

const cmdTimeout = 15 * time.Second

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt, "")

	case "search":
		if len(a) == 0 {
			ui.Fail("usage: phonebook search <query...>")
			return 2
		}
		return doList(opt, strings.Join(a, " "))

	case "add":
		if len(a) < 2 {
			ui.Fail("usage: phonebook add <name...> <number>")
			return 2
		}
		// last arg is the number, everything before it the name
		name := strings.Join(a[:len(a)-1], " ")
		number := a[len(a)-1]
		return doAdd(opt, name, number)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: phonebook rm <id>")
			return 2
		}
		return doRemove(opt, a[0])

	case "ui":
		if err := tui.Run(tui.Config{BaseURL: opt.BaseURL}); err != nil {
			ui.Fail("ui: " + err.Error())
			return 1
		}
		return 0

	case "serve":
		return doServe(opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`phonebook - a contact list in your terminal

Usage:
  phonebook <subcommand> [args]

Subcommands:
  ui                     Open the interactive list
  ls                     List every person
  search <query...>      Filter by name, or by number if the query has a digit
  add <name...> <number> Add a person (name can be multiple words)
  rm <id>                Delete the person with the given id
  serve                  Run the bundled dev store server

Examples:
  phonebook add "Arto Hellas" 040-123456
  phonebook search arto
  phonebook search 040
  phonebook rm 3b2d
`)
}

// -------------- subcommand impls ----------------

// newEngine wires a REST-backed engine with stdin confirmations.
func newEngine(opt Options) (*engine.Engine, *notify.Notifier) {
	notes := notify.New()
	store := reststore.New(opt.BaseURL)
	conf := stdinConfirmer{in: bufio.NewReader(os.Stdin)}
	return engine.New(store, notes, conf, slog.Default()), notes
}

func doList(opt Options, query string) int {
	eng, notes := newEngine(opt)
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	eng.Refresh(ctx)
	if code := flushNotes(notes); code != 0 {
		return code
	}

	persons := eng.Search(query)
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d",
		ui.C(t.Title, "Phonebook"),
		ui.C(t.Accent, "Entries"), len(persons),
	)
	var lines []string
	lines = append(lines, header)
	if query != "" {
		lines = append(lines, ui.C(t.Muted, "filter: "+query))
	}
	lines = append(lines, "")

	if len(persons) == 0 {
		lines = append(lines, ui.C(t.Muted, "no entries"))
	} else {
		names := make([]string, 0, len(persons))
		numbers := make([]string, 0, len(persons))
		for _, p := range persons {
			names = append(names, ui.C(t.Accent, t.Entry)+" "+p.Name)
			numbers = append(numbers, ui.C(t.Muted, t.Phone+" "+p.Number))
		}
		lines = append(lines, ui.Columns(names, numbers)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `phonebook add \"Arto Hellas\" 040-123456`"))
	ui.Panel(lines)
	return 0
}

func doAdd(opt Options, name, number string) int {
	eng, notes := newEngine(opt)
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	eng.SetName(name)
	eng.SetNumber(number)
	eng.Submit(ctx)
	return flushNotes(notes)
}

func doRemove(opt Options, id string) int {
	eng, notes := newEngine(opt)
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	// the engine resolves the id against the snapshot, so load it first
	eng.Refresh(ctx)
	if code := flushNotes(notes); code != 0 {
		return code
	}
	eng.RemovePerson(ctx, id)
	return flushNotes(notes)
}

func doServe(opt Options) int {
	router := server.NewRouter(memstore.New())
	slog.Info("phonebook store listening", "addr", opt.Addr)
	if err := router.Run(opt.Addr); err != nil {
		ui.Fail("serve: " + err.Error())
		return 1
	}
	return 0
}

// flushNotes prints whatever the engine reported and maps it to an exit
// code. One-shot commands read the notification before it can expire.
func flushNotes(notes *notify.Notifier) int {
	n, ok := notes.Current()
	if !ok {
		return 0
	}
	notes.Clear()
	if n.Kind == notify.Error {
		ui.Fail(n.Text)
		return 1
	}
	ui.OK(n.Text)
	return 0
}

// stdinConfirmer asks y/n on the terminal, standing in for the confirm
// dialogs of the interactive view.
type stdinConfirmer struct {
	in *bufio.Reader
}

func (c stdinConfirmer) ask(prompt string) bool {
	fmt.Print(prompt + " (y/N) ")
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c stdinConfirmer) ConfirmOverwrite(name string) bool {
	return c.ask(name + " is already added to phonebook, replace the old number with a new one?")
}

func (c stdinConfirmer) ConfirmDelete(name string) bool {
	return c.ask("Delete " + name + " ?")
}
