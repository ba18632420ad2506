package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wtask/termchat/internal/config"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

var (
	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint, set with -ldflags "-X main.Version=..."
	Version = "dev"
)

// mode - which parts of the application are run.
type mode struct {
	bind       config.Bind
	name       string
	serverOnly bool
	clientOnly bool
}

func (m mode) server() bool { return !m.clientOnly }

func (m mode) client() bool { return !m.serverOnly }

func parseFlags(args []string, out io.Writer) (mode, error) {
	flags := flag.NewFlagSet(BinaryName, flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() {
		fmt.Fprintf(out, "Terminal chat over TCP\n\n\t%s -b host:port [-s | -c] [-name name]\nOptions:\n\n", BinaryName)
		flags.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	m := mode{}
	bind := ""
	flags.StringVar(&bind, "b", "", "Address for the chat server, in the format host:port")
	flags.BoolVar(&m.serverOnly, "s", false, "Only run the server")
	flags.BoolVar(&m.clientOnly, "c", false, "Only run the client")
	flags.StringVar(&m.name, "name", "", "Client name in the chat")
	if err := flags.Parse(args); err != nil {
		return mode{}, err
	}

	usageError := func(err error) (mode, error) {
		flags.Usage()
		return mode{}, err
	}
	if bind == "" {
		return usageError(fmt.Errorf("%w: address not specified", config.ErrConfiguration))
	}
	if m.serverOnly && m.clientOnly {
		return usageError(fmt.Errorf("%w: cannot specify client-only and server-only", config.ErrConfiguration))
	}
	b, err := config.ParseBind(bind)
	if err != nil {
		return usageError(err)
	}
	m.bind = b
	m.name = strings.TrimSpace(m.name)
	return m, nil
}

func printError(out io.Writer, err error) {
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, err)
}
