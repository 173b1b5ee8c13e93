package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const cliToolVersion = "zapush-cli 0.0.0-dev"

func main() {
	if err := newZapushCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newZapushCmd() *cobra.Command {
	var logToStderr bool
	var verbose int
	cmd := &cobra.Command{
		Use:           "zapush",
		Short:         "zapush runs one method of a Java source file against an emulated host",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(logToStderr, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
	}

	cmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", false, "Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(
		&verbose, "verbose", "v", 0, "Enable verbose logging (e.g., v=3); anything >5 is very verbose")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initLogging forwards the CLI flags to glog, which reads its settings from
// the standard flag set.
func initLogging(logToStderr bool, verbose int) {
	if logToStderr {
		if err := flag.Lookup("logtostderr").Value.Set("true"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	if verbose > 0 {
		if err := flag.Lookup("v").Value.Set(strconv.Itoa(verbose)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

// runFunc wraps an error-returning command body. Errors are printed once
// and the process exits non-zero after glog has been flushed.
func runFunc(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil {
			return nil
		}
		fmt.Fprintln(cmd.ErrOrStderr(), errorMessage(err))
		if glog.V(3) {
			glog.Infof("%+v", err)
		}
		glog.Flush()
		return err
	}
}

// errorMessage flattens multi-errors into a numbered list.
func errorMessage(err error) string {
	var multi *multierror.Error
	if errors.As(err, &multi) {
		wrapped := multi.WrappedErrors()
		if len(wrapped) == 1 {
			return errorMessage(wrapped[0])
		}
		msg := fmt.Sprintf("%d errors occurred:", len(wrapped))
		for i, werr := range wrapped {
			msg += fmt.Sprintf("\n    %d) %s", i+1, errorMessage(werr))
		}
		return msg
	}
	return err.Error()
}
