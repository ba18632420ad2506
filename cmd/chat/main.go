package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"

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
	m, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK, nil
	}
	if err != nil {
		return exitUsage, err
	}

	config.LoadDotEnv()
	serverCfg, err := config.LoadServer()
	if err != nil {
		return exitUsage, err
	}
	clientCfg, err := config.LoadClient()
	if err != nil {
		return exitUsage, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	if m.server() {
		log := logs.GetLoggerFromString(serverCfg.LogLevel).With("app", BinaryName, "part", "server")
		listener, err := net.Listen("tcp", m.bind.String())
		if err != nil {
			return exitRuntime, fmt.Errorf("unable to listen %s: %w", m.bind, err)
		}
		server, err := app.NewServer(serverCfg, log, os.Stdout)
		if err != nil {
			listener.Close()
			return exitUsage, err
		}
		fmt.Fprintf(os.Stdout, "Listening on %s\n", listener.Addr())
		group.Go(func() error { return server.Serve(ctx, listener) })
	}

	if m.client() {
		terminal := bufio.NewReader(os.Stdin)
		name := m.name
		if name == "" {
			name = clientCfg.Name
		}
		if name == "" {
			if name, err = askName(terminal, os.Stdout); err != nil {
				stop()
				group.Wait()
				return exitUsage, err
			}
		}
		log := logs.GetLoggerFromString(clientCfg.LogLevel).With("app", BinaryName, "part", "client")
		c, err := app.NewClient(m.bind, name, clientCfg, log, terminal, os.Stdout)
		if err != nil {
			stop()
			group.Wait()
			return exitUsage, err
		}
		group.Go(func() error {
			if err := c.Run(ctx); err != nil {
				return err
			}
			if m.clientOnly {
				stop()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// askName - reads client name from the terminal.
func askName(in *bufio.Reader, out io.Writer) (string, error) {
	for {
		fmt.Fprint(out, "Please enter your name: ")
		line, err := in.ReadString('\n')
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: name is not entered", config.ErrConfiguration)
		}
	}
}
