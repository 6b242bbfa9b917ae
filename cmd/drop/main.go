package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	isatty "github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dropsrv/drop/internal/config"
	"github.com/dropsrv/drop/log"
)

var (
	version   string
	gitCommit string

	// verbosityLevels maps the --verbosity flag's 0-5 range onto our
	// slog-based level set, least to most verbose.
	verbosityLevels = []slog.Level{
		log.LevelCrit,
		log.LevelError,
		log.LevelWarn,
		log.LevelInfo,
		log.LevelDebug,
		log.LevelTrace,
	}
	levelInfo = 3
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "drop",
		Usage:   "short-lived content-addressed clipboard service",
		Flags: []cli.Flag{
			dirFlag,
			httpAddrFlag,
			httpPortFlag,
			timeoutFlag,
			requestTimeoutFlag,
			adminAddrFlag,
			prefixCacheSizeFlag,
			verbosityFlag,
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "drop:", err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name))

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	applyFlagOverrides(ctx, &cfg)

	requestTimeout := time.Duration(ctx.Int(requestTimeoutFlag.Name)) * time.Second
	exit, err := startServers(cfg, ctx.Int(prefixCacheSizeFlag.Name), ctx.String(adminAddrFlag.Name), requestTimeout)
	if err != nil {
		return err
	}
	defer exit()

	waitForInterrupt()
	return nil
}

// applyFlagOverrides lets explicit CLI flags win over file/env config,
// but only for flags the user actually passed (IsSet), so an unset flag
// doesn't clobber a value config.Load already resolved.
func applyFlagOverrides(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet(dirFlag.Name) {
		cfg.Dir = ctx.String(dirFlag.Name)
	}
	if ctx.IsSet(httpAddrFlag.Name) {
		cfg.HTTPAddr = ctx.String(httpAddrFlag.Name)
	}
	if ctx.IsSet(httpPortFlag.Name) {
		cfg.HTTPPort = uint16(ctx.Int(httpPortFlag.Name))
	}
	if ctx.IsSet(timeoutFlag.Name) {
		cfg.TimeoutSeconds = ctx.Int(timeoutFlag.Name)
		cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
}

func initLogger(verbosity int) {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(verbosityLevels) {
		verbosity = len(verbosityLevels) - 1
	}
	level := verbosityLevels[verbosity]

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, level, true)
	} else {
		handler = log.JSONHandlerWithLevel(os.Stdout, level)
	}
	log.SetDefault(log.NewLogger(handler))
}
