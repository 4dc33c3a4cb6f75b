// Package main implements authzctl, a command-line tool for working
// with authz rules documents: validating them, answering one-off
// access queries, dumping a compiled tree, and serving the query
// engine over the network.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "authzctl",
	Short: "Inspect and serve path-based authorization rules",
	Long: `authzctl validates authz rules documents, answers one-off
access queries against them, dumps a compiled rights tree for
debugging, and serves the query engine over HTTP and gRPC.`,
}

func main() {
	// glog registers its flags (-v, -logtostderr, ...) on the standard
	// flag package; fold them into cobra's pflag set so "authzctl
	// serve -v=2 -logtostderr" works the same as any glog-based binary.
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
