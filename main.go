// sqlrun - an interactive SQL shell for SQLite databases.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/jeranaias/sqlrun/internal/assemble"
	"github.com/jeranaias/sqlrun/internal/commands"
	"github.com/jeranaias/sqlrun/internal/config"
	"github.com/jeranaias/sqlrun/internal/dispatch"
	"github.com/jeranaias/sqlrun/internal/session"
	"github.com/jeranaias/sqlrun/internal/shell"
	"github.com/jeranaias/sqlrun/internal/storage"
	"github.com/jeranaias/sqlrun/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		quiet       = flag.Bool("q", false, "suppress messages, keep query results")
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "config file (default ~/.sqlrun/config.toml)")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("sqlrun %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlrun: %v\n", err)
		os.Exit(1)
	}

	var msgOut io.Writer = os.Stderr
	if *quiet {
		msgOut = io.Discard
	}
	printer := styles.NewPrinter(os.Stdout, msgOut)

	dispatcher := dispatch.New(printer)
	assembler := assemble.New()
	assembler.RemoveComments = cfg.CommentsRemove
	sessions := session.NewManager()

	sh := shell.New(dispatcher, assembler, sessions, printer)
	sh.SetPrompt(cfg.Prompt)

	setCmd, err := register(dispatcher, sh, printer, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlrun: %v\n", err)
		os.Exit(1)
	}
	dispatcher.AddListener(setCmd)
	sh.SetVariableProvider(setCmd)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		config.EnsureConfigDir()
		historyFile := cfg.HistoryFile
		if historyFile == "" {
			historyFile = config.HistoryPath()
		}
		console := shell.NewConsole(historyFile)
		defer console.Close()

		engine := dispatch.NewCompletionEngine(dispatcher, setCmd)
		engine.HasSession = func() bool { return sessions.Current() != nil }
		console.SetWordCompleter(sh.WordCompleter(engine))

		sh.SetConsole(console)
	} else {
		// failed statements from piped input get echoed for context
		dispatcher.StartBatch()
		sh.SetInput(os.Stdin)
	}

	startup(sh, cfg, flag.Args())

	runErr := sh.Run()

	dispatcher.Shutdown()
	sessions.CloseAll()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "sqlrun: %v\n", runErr)
		os.Exit(1)
	}
}

// register binds the builtin commands and returns the variable command,
// which the caller wires up as listener and variable provider.
func register(d *dispatch.Dispatcher, sh *shell.Shell, printer *styles.Printer, cfg *config.Config) (*commands.SetCommand, error) {
	setCmd := commands.NewSetCommand(printer)
	sqlCmd := commands.NewSQLCommand(printer)
	sqlCmd.EchoStatements = cfg.EchoStatements
	sqlCmd.Theme = cfg.Theme
	sqlCmd.RowLimit = cfg.RowLimit

	all := []dispatch.Command{
		commands.NewHelpCommand(d, printer),
		commands.NewExitCommand(sh),
		commands.NewEchoCommand(printer),
		setCmd,
		commands.NewAliasCommand(d, printer),
		commands.NewConnectCommand(sh),
		commands.NewStatusCommand(sh),
		commands.NewLoadCommand(sh),
		commands.NewSpoolCommand(printer),
		sqlCmd,
	}
	if store, err := storage.NewRunStore(); err != nil {
		printer.Warnf("statement history disabled: %v", err)
	} else {
		histCmd := commands.NewHistoryCommand(store, printer)
		all = append(all, histCmd)
		d.AddListener(histCmd)
	}
	for _, c := range all {
		if err := d.Register(c); err != nil {
			return nil, err
		}
	}
	return setCmd, nil
}

// startup connects and loads whatever the config and the command line
// ask for. The first positional argument is a database to open.
func startup(sh *shell.Shell, cfg *config.Config, args []string) {
	url := cfg.Startup.URL
	if len(args) > 0 {
		url = args[0]
	}
	if url != "" {
		line := "connect " + url
		if cfg.Startup.Name != "" {
			line += " " + cfg.Startup.Name
		}
		sh.ExecuteLine(line)
	}
	for _, file := range cfg.Startup.Files {
		sh.ExecuteLine("load " + file)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sqlrun [flags] [database]\n\n")
	fmt.Fprintf(os.Stderr, "An interactive SQL shell. With a database argument, connects to\n")
	fmt.Fprintf(os.Stderr, "it before the first prompt; ':memory:' opens a scratch database.\n\n")
	flag.PrintDefaults()
}
