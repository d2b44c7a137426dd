package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

func runParams(args []string, stdout io.Writer, _ *logrus.Logger) error {
	fs := flag.NewFlagSet("params", flag.ContinueOnError)
	statePath := fs.String("state", "", "show values from a saved state file")
	var set settings
	fs.Var(&set, "set", "override a parameter, e.g. cutoff=2000 (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := buildStore(*statePath, set)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Key\tName\tRange\tDefault\tValue\tNormalized\n")
	fmt.Fprintf(tw, "---\t----\t-----\t-------\t-----\t----------\n")
	for _, info := range param.All() {
		v := store.Get(info.ID)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.4f\n",
			info.Key,
			info.Name,
			rangeLabel(info),
			info.Format(info.Default),
			info.Format(v),
			store.GetNormalized(info.ID),
		)
	}
	return tw.Flush()
}

func rangeLabel(info param.Info) string {
	if info.IsChoice() {
		return strings.Join(info.Choices, " | ")
	}
	lo := strconv.FormatFloat(info.Min, 'g', -1, 64)
	hi := strconv.FormatFloat(info.Max, 'g', -1, 64)
	if info.Unit == "" {
		return lo + " .. " + hi
	}
	return lo + " .. " + hi + " " + info.Unit
}
