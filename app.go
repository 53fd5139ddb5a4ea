// Package main is the entry point for the aws-edge-audit application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thirukguru/aws-edge-audit/model"
	"github.com/thirukguru/aws-edge-audit/service/flag"
	"github.com/thirukguru/aws-edge-audit/shared/logging"
	"github.com/thirukguru/aws-edge-audit/shared/tables"
	"github.com/thirukguru/aws-edge-audit/shared/trends"
	"github.com/thirukguru/aws-edge-audit/utils/banner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every sub-command.
type app struct {
	global      model.GlobalFlags
	versionInfo model.VersionInfo
	logger      zerolog.Logger
	out         io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{
		versionInfo: model.VersionInfo{Version: version, Commit: commit, Date: date},
		logger:      zerolog.Nop(),
		out:         os.Stdout,
	}

	root := &cobra.Command{
		Use:           "aws-edge-audit",
		Short:         "Scan and audit the AWS edge: WAF, load balancers and Route53",
		Long:          "aws-edge-audit scans WAFv2, ELBv2 and Route53 across profiles and regions, correlates the results into a WAF/ALB/DNS graph and reports unprotected entry points.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setup(cmd)
		},
	}
	flag.BindGlobal(root.PersistentFlags(), &a.global)

	root.AddCommand(
		a.newScanCmd(),
		a.newAnalyzeCmd(),
		a.newCorrelateCmd(),
		a.newCheckEnvCmd(),
		a.newHistoryCmd(),
		a.newDBCmd(),
		a.newDashboardCmd(),
		a.newVersionCmd(),
	)
	return root
}

// setup initializes logging and routes table output to the command's writer.
func (a *app) setup(cmd *cobra.Command) {
	level := a.global.LogLevel
	if a.global.Debug {
		level = "debug"
	}
	a.logger = logging.Init(logging.Config{
		Format:    a.global.LogFormat,
		Level:     level,
		Component: cmd.Name(),
	})

	a.out = cmd.OutOrStdout()
	tables.Out = a.out
	trends.Out = a.out

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(a.logger.WithContext(ctx))
}

// interactive reports whether spinners and the banner should be drawn.
func (a *app) interactive() bool {
	return logging.IsInteractive(a.global.LogFormat)
}

func (a *app) drawBanner() {
	if a.global.NoBanner || !a.interactive() {
		return
	}
	banner.DrawBannerTitle(a.out)
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "aws-edge-audit %s (commit %s, built %s)\n",
				a.versionInfo.Version, a.versionInfo.Commit, a.versionInfo.Date)
		},
	}
}
