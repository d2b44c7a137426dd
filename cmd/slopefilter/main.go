// Command slopefilter exercises the slope filter engine from the terminal.
//
// Usage:
//
//	slopefilter [-v] <command> [flags]
//
// Commands:
//
//	params    print the parameter table
//	response  compare measured and analytic magnitude responses
//	render    filter a generated signal offline and print block levels
//	play      filter a generated signal live with keyboard and MIDI control
//
// Examples:
//
//	slopefilter params
//	slopefilter response -set slope=2 -set cutoff=500
//	slopefilter render -source sweep -script sweep.lua -out sweep.f32
//	slopefilter play -source noise -midi any
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type command struct {
	name string
	help string
	run  func(args []string, stdout io.Writer, log *logrus.Logger) error
}

var commands = []command{
	{"params", "print the parameter table", runParams},
	{"response", "compare measured and analytic magnitude responses", runResponse},
	{"render", "filter a generated signal offline and print block levels", runRender},
	{"play", "filter a generated signal live with keyboard and MIDI control", runPlay},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("slopefilter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: slopefilter [-v] <command> [flags]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-9s %s\n", c.name, c.help)
		}
		fmt.Fprintf(stderr, "\nRun 'slopefilter <command> -h' for command flags.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(fs.Args()[1:], stdout, log); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "error: unknown command %q\n", name)
	fs.Usage()
	return 2
}
