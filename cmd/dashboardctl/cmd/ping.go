package cmd

import (
	"context"
	"fmt"
	"time"

	"wpconn-dashboard/internal/gateway"

	"github.com/spf13/cobra"
)

var (
	pingRetries  int
	pingInterval time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the gateway backend is reachable",
	Long: `Calls the gateway's /health endpoint with the configured API key and
then lists one tenant to confirm the key is accepted.`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().IntVar(&pingRetries, "retries", 3, "Attempts before giving up")
	pingCmd.Flags().DurationVar(&pingInterval, "interval", 2*time.Second, "Wait between attempts")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		printError("load config", err)
		return err
	}
	client := gateway.NewClient(gateway.Options{
		BaseURL:   cfg.GatewayURL,
		APIKey:    cfg.GatewayAPIKey,
		HealthURL: cfg.GatewayHealthURL,
		Timeout:   5 * time.Second,
		Logger:    logger,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	attempts := max(pingRetries, 1)
	for i := 1; i <= attempts; i++ {
		err = ping(ctx, client)
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "[+] gateway %s is healthy\n", client.BaseURL())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[-] attempt %d/%d: %s\n", i, attempts, gateway.Detail(err))
		if i < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pingInterval):
			}
		}
	}
	return fmt.Errorf("gateway not healthy after %d attempts: %w", attempts, err)
}

func ping(ctx context.Context, client *gateway.Client) error {
	status, err := client.Health(ctx)
	if err != nil {
		return err
	}
	if !status.OK() {
		return fmt.Errorf("health status %q", status.Status)
	}
	_, err = client.ListTenants(ctx, gateway.TenantQuery{Limit: 1})
	return err
}
