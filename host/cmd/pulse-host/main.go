package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	verbose := false
	for _, a := range os.Args[2:] {
		if a == "-verbose" || a == "--verbose" {
			verbose = true
		}
	}
	initLogger(verbose)

	var err error
	switch os.Args[1] {
	case "sim":
		err = simCommand(os.Args[2:])
	case "monitor":
		err = monitorCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("failed")
		os.Exit(1)
	}
}

func initLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}

func printUsage() {
	fmt.Println("pulse-host - drive bench tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pulse-host sim [flags]      - Run the control pipeline offline")
	fmt.Println("  pulse-host monitor [flags]  - Summarize the firmware trace over serial")
	fmt.Println()
	fmt.Println("Run 'pulse-host <command> -h' for flags.")
}

// newFlagSet builds a subcommand flag set that also accepts -verbose.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Bool("verbose", false, "Enable debug logging")
	return fs
}
