package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gitoperator/pkg/config"
	"gitoperator/pkg/gitcontent"
	"gitoperator/pkg/hook"
	"gitoperator/pkg/logging"
)

var (
	configFile  string
	logLevel    string
	logFormat   string
	printConfig bool
)

var rootCmd = &cobra.Command{
	Use:   "gitoperator",
	Short: "Keep files declared in GitContent resources in sync with GitHub repositories",
	Long: `gitoperator is a shell-operator hook reconciling wingcloud.com/v1 GitContent resources.

For every added, modified or deleted GitContent it clones the target repository,
updates the "gitoperator" integration branch with the declared files, pushes it
and opens a pull request against the default branch. Progress is reported as a
Ready condition on the resource.

Run without arguments the hook reads the events from $BINDING_CONTEXT_PATH.
With --config it prints the hook configuration for shell-operator.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runHook,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command. SIGINT and SIGTERM cancel in-flight work.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err != nil {
		reportFailure(cmd, err)
		os.Exit(1)
	}
}

// reportFailure logs a failed run through the configured logger, so
// --log-format json also covers the final error. Failures before logging is
// set up (bad flags or configuration) go to stderr as plain text.
func reportFailure(cmd *cobra.Command, err error) {
	if cmd == nil {
		cmd = rootCmd
	}
	if !logging.Initialized() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return
	}

	subsystem := "Hook"
	if cmd != rootCmd {
		subsystem = "CLI"
	}
	logging.Error(subsystem, err, "%s failed", cmd.CommandPath())
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "gitoperator version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "Configuration file (default is $GITOPERATOR_CONFIG or ~/.gitoperator/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.Flags().BoolVar(&printConfig, "config", false, "Print the shell-operator hook configuration and exit")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(crdCmd)
}

func runHook(cmd *cobra.Command, _ []string) error {
	if printConfig {
		return hook.NewDescriptor(gitcontent.APIVersion, gitcontent.Kind).Write(cmd.OutOrStdout())
	}

	cfg, err := loadConfig(cmd, config.ModeHook)
	if err != nil {
		return err
	}

	logging.With("run", uuid.NewString())

	events, err := hook.LoadFile(cfg.Hook.BindingContextPath)
	if err != nil {
		return err
	}

	reconciler, err := newReconciler(cfg, reconcilerOptions{reportStatus: true})
	if err != nil {
		return err
	}

	dispatcher := hook.NewDispatcher()
	gitcontent.NewHandler(reconciler).Register(dispatcher)

	logging.Info("Hook", "processing %d events from %s", len(events), cfg.Hook.BindingContextPath)
	return dispatcher.Dispatch(cmd.Context(), events)
}
