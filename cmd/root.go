package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/taskflow/internal/app"
)

const configFlag = "config"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskflow",
		Short:         "Project and task management API",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runServe,
	}
	cmd.PersistentFlags().String(configFlag, "", "path to a dotenv or YAML config file; the environment is used when empty")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Connects to PostgreSQL, applies pending migrations when
POSTGRES_AUTO_MIGRATE is set and serves until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) (err error) {
	if err = bootstrap(cmd); err != nil {
		return err
	}

	defer recoverMust("serve", &err)

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustMigratePostgres()
	app.MustListenAndServeHTTP()
	return nil
}

// bootstrap reads the config and sets up logging.
func bootstrap(cmd *cobra.Command) (err error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return err
	}

	defer recoverMust("bootstrap", &err)

	app.InitDefaultLogger()
	app.MustReadConfig(path)
	app.MustInitApplicationLogger()
	return nil
}

// recoverMust turns a panic raised by an app.Must* helper into *err,
// so cobra reports it like any other command error.
func recoverMust(stage string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*err = fmt.Errorf("%s: %w", stage, e)
		return
	}
	*err = fmt.Errorf("%s: %v", stage, r)
}
