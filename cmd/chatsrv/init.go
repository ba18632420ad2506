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

// Exit codes of the server application.
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

// parseFlags - reads the bind address from command line.
func parseFlags(args []string, out io.Writer) (config.Bind, error) {
	flags := flag.NewFlagSet(BinaryName, flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() {
		fmt.Fprintf(out, "Launch text chat server over TCP\n\n\t%s -b host:port\nOptions:\n\n", BinaryName)
		flags.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	bind := ""
	flags.StringVar(&bind, "b", "", "Address for the chat server to bind, in the format host:port")
	if err := flags.Parse(args); err != nil {
		return config.Bind{}, err
	}
	if bind == "" {
		flags.Usage()
		return config.Bind{}, fmt.Errorf("%w: address not specified", config.ErrConfiguration)
	}
	if flags.NArg() > 0 {
		flags.Usage()
		return config.Bind{}, fmt.Errorf("%w: unexpected arguments %v", config.ErrConfiguration, flags.Args())
	}
	b, err := config.ParseBind(bind)
	if err != nil {
		flags.Usage()
		return config.Bind{}, err
	}
	return b, nil
}

func printError(out io.Writer, err error) {
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, err)
}
