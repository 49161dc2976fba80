package cmd

import (
	"errors"
	"fmt"
	"os"

	"plcsync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "plcsync",
	Short: "Structured-text code reconciliation engine",
	Long: `plcsync extracts controller code snapshots, diffs them, applies diffs,
and reconciles a target against an authoritative desired state.

Snapshot sources are directories of export files, PLCopen XML exports,
s3://bucket/prefix object storage references, or db://project rows.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// partialError signals that a command completed its full pass but some
// entries conflicted or failed. It maps to a distinct exit code so callers
// can tell partial completion from total failure.
type partialError struct {
	msg string
}

func (e *partialError) Error() string {
	return e.msg
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level so CLI errors are readable and
		// timestamped the way users expect from a terminal tool.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}

		var partial *partialError
		if errors.As(err, &partial) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
