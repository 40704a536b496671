package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fundwatch/internal/bootstrap"
	"fundwatch/internal/infra"
)

var rootCmd = &cobra.Command{
	Use:   "fundctl",
	Short: "Look up who funds a politician",
	Long: `fundctl runs the same donor pipeline and politician roster as the API server,
printing the results to the terminal. Configuration comes from the environment
(and an optional .env file), exactly as for the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(donorsCmd())
	rootCmd.AddCommand(politiciansCmd())
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withServices builds the service graph for one command and tears it down
// afterwards. CLI logs go to stderr so stdout stays machine-readable.
func withServices(cmd *cobra.Command, run func(*bootstrap.Services) error) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewCLILogger(cmd.ErrOrStderr(), cfg.AppEnv)
	services, err := bootstrap.Build(cmd.Context(), cfg, &logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := services.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close services")
		}
	}()
	return run(services)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
