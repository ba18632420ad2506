package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"

	"github.com/wtask/termchat/internal/app"
	"github.com/wtask/termchat/internal/config"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		printError(os.Stderr, err)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	bind, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK, nil
	}
	if err != nil {
		return exitUsage, err
	}

	config.LoadDotEnv()
	cfg, err := config.LoadServer()
	if err != nil {
		return exitUsage, err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel).With("app", BinaryName, "version", Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", bind.String())
	if err != nil {
		return exitRuntime, fmt.Errorf("unable to listen %s: %w", bind, err)
	}
	server, err := app.NewServer(cfg, log, os.Stdout)
	if err != nil {
		listener.Close()
		return exitUsage, err
	}

	fmt.Fprintf(os.Stdout, "Listening on %s, press Ctrl-C to stop...\n", listener.Addr())
	if err := server.Serve(ctx, listener); err != nil {
		return exitRuntime, err
	}
	log.Info("chat server stopped, bye")
	return exitOK, nil
}
