package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/richard-senior/gomcp/internal/config"
	"github.com/richard-senior/gomcp/internal/logger"
	"github.com/richard-senior/gomcp/pkg/mcp"
	"github.com/richard-senior/gomcp/pkg/transport"
	"github.com/richard-senior/gomcp/pkg/transport/sse"
)

func newCallCmd(flags *sharedFlags) *cobra.Command {
	var argsJSON string

	cmd := &cobra.Command{
		Use:   "call [tool-name]",
		Short: "Connect to a server, initialize, and call a tool (or just list tools with no name)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, cliArgs []string) error {
			cfg, err := loadConfiguration(flags)
			if err != nil {
				return err
			}
			var toolName string
			if len(cliArgs) == 1 {
				toolName = cliArgs[0]
			}
			return runCall(cmd.Context(), cfg, toolName, argsJSON)
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "{}", "JSON object of arguments for the named tool")
	return cmd
}

func runCall(ctx context.Context, cfg config.Configuration, toolName, argsJSON string) error {
	t, err := buildClientTransport(cfg)
	if err != nil {
		return err
	}

	c := mcp.NewClient("gomcp-example-client", "0.1.0",
		mcp.WithLogger(logger.Default()),
		mcp.WithConfiguration(cfg),
	)
	if err := c.Connect(ctx, t); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer c.Disconnect()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, mErr := c.Initialize(ctx, mcp.ClientCapabilities{}); mErr != nil {
		return mErr
	}

	if toolName == "" {
		return listTools(ctx, c)
	}
	return callTool(ctx, c, toolName, argsJSON)
}

func buildClientTransport(cfg config.Configuration) (transport.Transport, error) {
	switch cfg.TransportKind {
	case config.TransportNet:
		return transport.DialNetTransport("tcp", cfg.ListenAddr), nil
	case config.TransportSSE:
		return sse.NewClientTransport(cfg.ListenAddr, ""), nil
	default:
		return transport.NewStdioTransport(), nil
	}
}

func listTools(ctx context.Context, c *mcp.Client) error {
	result, mErr := c.ListTools(ctx, mcp.ToolsListParams{})
	if mErr != nil {
		return mErr
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func callTool(ctx context.Context, c *mcp.Client, name, argsJSON string) error {
	var arguments map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &arguments); err != nil {
		return fmt.Errorf("--args must be a JSON object: %w", err)
	}

	result, mErr := c.CallTool(ctx, mcp.ToolsCallParams{Name: name, Arguments: arguments})
	if mErr != nil {
		return mErr
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
