package main

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mvaleed/alastlog/internal/identity"
	"github.com/mvaleed/alastlog/internal/lastlog"
	"github.com/mvaleed/alastlog/internal/report"
)

var version = "dev"

func newRootCmd(logger hclog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "alastlog",
		Short:        "Report last login times from a lastlog file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logger.SetLevel(hclog.Debug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, logger)
		},
	}

	cmd.Flags().StringP("user", "u", "", "print the record for this login name or uid only")
	cmd.Flags().Int64P("time", "t", -1, "print only records within this many days of now")
	cmd.Flags().StringP("file", "f", lastlog.DefaultPath, "read records from this file")
	cmd.Flags().String("passwd", identity.DefaultPath, "read accounts from this passwd-format file")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(newDumpCmd(), newVersionCmd())

	return cmd
}

func runReport(cmd *cobra.Command, logger hclog.Logger) error {
	userFlag, _ := cmd.Flags().GetString("user")
	days, _ := cmd.Flags().GetInt64("time")
	file, _ := cmd.Flags().GetString("file")
	passwdPath, _ := cmd.Flags().GetString("passwd")

	db, err := identity.Open(passwdPath)
	if err != nil {
		return err
	}

	users := db.Users()
	if userFlag != "" {
		u, err := db.Lookup(userFlag)
		if err != nil {
			return err
		}
		users = []identity.User{u}
	}

	st, err := lastlog.Open(file)
	if err != nil {
		return err
	}
	logger.Debug("lastlog open", "file", file, "accounts", len(users))

	rep := report.New(st, report.Config{
		Days:   days,
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	})
	rep.Run(users)

	// A close failure still becomes a non-zero exit, but everything
	// already written to stdout stands.
	return st.Close()
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump raw records from a lastlog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			head, _ := cmd.Flags().GetInt("head")
			return lastlog.DumpFile(cmd.OutOrStdout(), file, head)
		},
	}

	cmd.Flags().StringP("file", "f", lastlog.DefaultPath, "read records from this file")
	cmd.Flags().IntP("head", "n", 0, "stop after this many active records (0 = all)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
