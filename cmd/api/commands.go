package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jobmatch-assistant/configs"
	protocol "jobmatch-assistant/protocal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type rootOptions struct {
	env        string
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "jobmatch",
		Short:         "Conversational job-preference assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.env, "env", "", "the environment to use (loads config.<env>.yaml)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "./configs", "directory holding config.yaml")

	root.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newImportCatalogCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return protocol.ServeHTTP(opts.configPath, opts.env)
		},
	}
}

func loadConfig(opts *rootOptions) (*configs.Config, error) {
	if err := configs.InitViper(opts.configPath, opts.env); err != nil {
		return nil, err
	}
	cfg := configs.GetViper()
	protocol.SetupLogging(cfg.App)
	return cfg, nil
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask <utterance>...",
		Short: "Run each utterance as one turn of a session and print the results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			ctx := context.Background()
			container, err := protocol.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			for _, utterance := range args {
				result := container.Turns.ProcessTurn(ctx, sessionID, utterance)
				if err := encoder.Encode(result); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "cli", "session id shared by all utterances")
	return cmd
}

func newImportCatalogCmd(opts *rootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import-catalog",
		Short: "Load a JSON job catalog into postgres, replacing the jobs table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(path) == "" {
				return fmt.Errorf("--file is required")
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			count, err := protocol.ImportCatalog(cmd.Context(), cfg, path)
			if err != nil {
				return err
			}
			logrus.Infof("Imported %d jobs from %s", count, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "path to the JSON catalog")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
