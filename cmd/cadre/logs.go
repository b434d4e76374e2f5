package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/cadre/internal/config"
	"github.com/five82/cadre/internal/logtail"
)

const defaultLogLines = 50

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var lines int
	var plain bool
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the cadre log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.LogFile == "" {
				return fmt.Errorf("logging is disabled (log_file is empty)")
			}
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			render := logtail.Highlight
			if plain {
				render = logtail.Format
			}
			out := cmd.OutOrStdout()
			for _, line := range tail {
				if _, err := fmt.Fprintln(out, render(line)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colours")
	return cmd
}
