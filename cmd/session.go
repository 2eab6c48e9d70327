package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"makdo/internal/admin"
	"makdo/internal/session"
)

var (
	sessionAPIURL  string
	sessionAPIKey  string
	sessionCluster string
	sessionKubecfg string
	sessionContext string
	sessionTTL     float64
	sessionMine    bool
)

// sessionCmd groups the out-of-band session management commands. They talk
// to a running `makdo serve` instance over the admin API.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage cluster sessions via the admin API",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a cluster session from a kubeconfig file",
	RunE: func(cmd *cobra.Command, args []string) error {
		kubeconfig, err := os.ReadFile(sessionKubecfg)
		if err != nil {
			return fmt.Errorf("cannot read kubeconfig: %w", err)
		}

		client := newAdminClient(sessionAPIURL, resolveAPIKey())
		resp, err := client.createSession(cmd.Context(), admin.CreateSessionRequest{
			ClusterName: sessionCluster,
			Kubeconfig:  string(kubeconfig),
			Context:     sessionContext,
			TTLHours:    sessionTTL,
		})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("session creation failed: %s", resp.Error)
		}

		fmt.Printf("Session created for cluster %s\n", resp.ClusterName)
		fmt.Printf("  Token:        %s\n", resp.SessionToken)
		fmt.Printf("  API server:   %s\n", resp.APIServer)
		fmt.Printf("  Namespace:    %s\n", resp.Namespace)
		fmt.Printf("  Connectivity: %s (%s)\n", resp.ConnectivityStatus, resp.ConnectivityMessage)
		fmt.Printf("  Expires:      %s\n", resp.ExpiresAt)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active cluster sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAdminClient(sessionAPIURL, resolveAPIKey())
		resp, err := client.listSessions(cmd.Context(), sessionMine)
		if err != nil {
			return err
		}

		if resp.TotalSessions == 0 {
			fmt.Println("No active sessions")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Token", "Cluster", "API Server", "Namespace", "Connectivity", "Expires"})
		for _, s := range resp.Sessions {
			t.AppendRow(table.Row{
				session.TokenPreview(s.Token),
				s.ClusterName,
				s.APIServer,
				s.Namespace,
				s.Connectivity,
				s.ExpiresAt.Format("2006-01-02 15:04"),
			})
		}
		t.Render()
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete TOKEN",
	Short: "Delete a cluster session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAdminClient(sessionAPIURL, resolveAPIKey())
		resp, err := client.deleteSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return nil
	},
}

// resolveAPIKey prefers the flag, falling back to the environment.
func resolveAPIKey() string {
	if sessionAPIKey != "" {
		return sessionAPIKey
	}
	return os.Getenv("MAKDO_API_KEY")
}

func init() {
	sessionCmd.PersistentFlags().StringVar(&sessionAPIURL, "api-url", "http://localhost:9997", "Admin API base URL")
	sessionCmd.PersistentFlags().StringVar(&sessionAPIKey, "api-key", "", "Admin API key (default: MAKDO_API_KEY)")

	sessionCreateCmd.Flags().StringVar(&sessionCluster, "cluster", "", "Logical cluster name")
	sessionCreateCmd.Flags().StringVar(&sessionKubecfg, "kubeconfig", "", "Path to the kubeconfig file")
	sessionCreateCmd.Flags().StringVar(&sessionContext, "context", "", "Kubeconfig context (default: current-context)")
	sessionCreateCmd.Flags().Float64Var(&sessionTTL, "ttl-hours", 24, "Session lifetime in hours")
	sessionCreateCmd.MarkFlagRequired("cluster")
	sessionCreateCmd.MarkFlagRequired("kubeconfig")

	sessionListCmd.Flags().BoolVar(&sessionMine, "mine", false, "Only sessions created with this API key")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}
