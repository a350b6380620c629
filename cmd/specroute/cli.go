package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/drblury/specroute/config"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// CLI is the command line interface of specroute.
type CLI struct {
	Routes Routes `kong:"cmd,help='List the operations an API document declares.'"`
	Check  Check  `kong:"cmd,help='Load an API document and bind every operation without serving it.'"`
	Serve  Serve  `kong:"cmd,help='Serve an API document with placeholder handlers.'"`

	Log struct {
		Level  string `help:"Override the configured log level (debug, info, warn, error)."`
		Format string `help:"Override the configured log format (text, json)."`
	} `embed:"" prefix:"log-"`
	// Configuration is managed by the config package, not by kong.
	Config  string           `kong:"env='SERVICE_CONFIG',help='Path to the TOML configuration file.'"`
	Version kong.VersionFlag `kong:"help='Output version and exit.'"`
}

// appContext is bound into every command's Run method.
type appContext struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.Config
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, color bool) int {
	cli := &CLI{}
	exited, exitCode := false, exitOK
	parser, err := kong.New(cli,
		kong.Name("specroute"),
		kong.Description("Bind the operations of an API document to HTTP handlers."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			exited, exitCode = true, code
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": version},
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed creating the Kong parser: %v\n", err)
		return exitError
	}

	kctx, err := parser.Parse(args)
	if exited {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if err := cfg.Log.Override(cli.Log.Level, cli.Log.Format); err != nil {
		fmt.Fprintf(stderr, "error: log: %v\n", err)
		return exitUsage
	}
	if cfg.Version == "dev" {
		cfg.Version = version
	}

	appCtx := &appContext{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cfg.Log, color),
		Config: cfg,
	}
	if err := kctx.Run(appCtx); err != nil {
		appCtx.Logger.Error("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}
