/*
Package main is the entry point for menuctl.

Usage:

	menuctl [command]

Available Commands:

	search      Run a ranked search
	classify    Show how a query is classified and boosted
	diagnose    Check the index and semantic service step by step
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/menurank/internal/cli"
	"github.com/kailas-cloud/menurank/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.String())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
