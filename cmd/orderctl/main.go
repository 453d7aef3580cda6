package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/stageorder/internal/orderctl"
	"github.com/okian/stageorder/pkg/logger"
)

const usage = `orderctl computes recommended stage running orders.

Usage:
  orderctl [options] lineup.yaml [more.yaml ...]
  orderctl -generate 12 [-explain]
  orderctl -generate 12 -seed 7 -o lineup.yaml

Lineup files are YAML or JSON, holding either one lineup at the top level
or several under a "lineups" key.

Options:
`

func main() {
	cfg := &orderctl.Config{}
	var verbose bool

	flag.IntVar(&cfg.Generate, "generate", 0, "Generate a synthetic lineup with this many bands")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Seed for -generate")
	flag.StringVar(&cfg.Output, "o", "", "Write the lineups to this YAML file instead of ordering them")
	flag.BoolVar(&cfg.Explain, "explain", false, "Show score and features per slot")
	flag.StringVar(&cfg.Locale, "locale", "ja", "Keyword table for band notes: ja, en or all")
	flag.StringVar(&cfg.URL, "url", "", "Order through a running server at this base URL")
	flag.StringVar(&cfg.Token, "token", os.Getenv("STAGEORDER_TOKEN"), "Bearer token for -url")
	flag.DurationVar(&cfg.Timeout, "timeout", orderctl.DefaultTimeout, "HTTP request timeout")
	flag.IntVar(&cfg.Workers, "workers", 0, "Local worker count (default 4)")
	flag.BoolVar(&cfg.JSON, "json", false, "Print JSON instead of tables")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg.Files = flag.Args()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	} else {
		_ = logger.SetLevelString("warn")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orderctl.Run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "orderctl:", err)
		if errors.Is(err, orderctl.ErrNoInput) {
			flag.Usage()
		}
		stop()
		os.Exit(1)
	}
}
