package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/richard-senior/gomcp/internal/config"
	"github.com/richard-senior/gomcp/internal/logger"
	"github.com/richard-senior/gomcp/pkg/jsonrpc"
	"github.com/richard-senior/gomcp/pkg/mcp"
	"github.com/richard-senior/gomcp/pkg/mcperr"
	"github.com/richard-senior/gomcp/pkg/mcpmetrics"
	"github.com/richard-senior/gomcp/pkg/transport"
	"github.com/richard-senior/gomcp/pkg/transport/sse"
)

func newServeCmd(flags *sharedFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a demo MCP server exposing an echo tool, a greeting prompt, and a static resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Configuration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics := mcpmetrics.NewRegistry(reg)
	s := mcp.NewServer("gomcp-example-server", "0.1.0", demoCapabilities(),
		mcp.WithLogger(logger.Default()),
		mcp.WithConfiguration(cfg),
		mcp.WithMetrics(metrics),
	)
	registerDemoTool(s)
	registerDemoPrompt(s)
	registerDemoResource(s)

	t, err := buildServerTransport(cfg, reg)
	if err != nil {
		return err
	}

	if err := s.Start(ctx, t, nil); err != nil {
		return err
	}
	logger.Info("gomcp: server listening via %s transport", cfg.TransportKind)

	<-ctx.Done()
	logger.Info("gomcp: shutting down")
	return s.Stop()
}

// buildServerTransport constructs the transport named by cfg.TransportKind.
// stdio needs no address; net listens on cfg.ListenAddr and accepts exactly
// one connection (one peer per process, spec §4.5); sse also mounts
// GET /metrics on the same gin engine as the message endpoints, backed by
// the same registry mcpmetrics.NewRegistry registered its collectors with.
func buildServerTransport(cfg config.Configuration, reg *prometheus.Registry) (transport.Transport, error) {
	switch cfg.TransportKind {
	case config.TransportNet:
		return acceptOneNetTransport(cfg.ListenAddr)
	case config.TransportSSE:
		st := sse.NewServerTransport(cfg.ListenAddr)
		st.Engine().GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		return st, nil
	default:
		return transport.NewStdioTransport(), nil
	}
}

func acceptOneNetTransport(addr string) (transport.Transport, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	logger.Info("gomcp: waiting for one connection on %s", addr)
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	return transport.NewNetTransport(conn), nil
}

func demoCapabilities() mcp.ServerCapabilities {
	return mcp.ServerCapabilities{
		Tools:     &mcp.ListChangedCapability{ListChanged: true},
		Prompts:   &mcp.ListChangedCapability{},
		Resources: &mcp.ResourcesCapability{List: true, Read: true, Subscribe: true},
	}
}

func registerDemoTool(s *mcp.Server) {
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodToolsList, func(mcp.ToolsListParams) (mcp.ToolsListResult, *mcperr.Error) {
		return mcp.ToolsListResult{Tools: []mcp.Tool{{
			Name:        "echo",
			Description: "Echoes back the provided text",
			InputSchema: []byte(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`),
		}}}, nil
	})
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodToolsCall, func(params mcp.ToolsCallParams) (mcp.ToolsCallResult, *mcperr.Error) {
		if params.Name != "echo" {
			return mcp.ToolsCallResult{}, mcperr.InvalidParams("unknown tool: " + params.Name)
		}
		text, _ := params.Arguments["text"].(string)
		return mcp.ToolsCallResult{Content: []mcp.ToolContent{mcp.TextContent(text)}}, nil
	})
}

func registerDemoPrompt(s *mcp.Server) {
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodPromptsList, func(mcp.PromptsListParams) (mcp.PromptsListResult, *mcperr.Error) {
		return mcp.PromptsListResult{Prompts: []mcp.Prompt{{
			Name:        "greeting",
			Description: "Greets the named person",
			Arguments:   []mcp.PromptArgument{{Name: "name", Required: true}},
		}}}, nil
	})
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodPromptsGet, func(params mcp.PromptsGetParams) (mcp.PromptsGetResult, *mcperr.Error) {
		if params.Name != "greeting" {
			return mcp.PromptsGetResult{}, mcperr.InvalidParams("unknown prompt: " + params.Name)
		}
		name := params.Arguments["name"]
		if name == "" {
			name = "there"
		}
		return mcp.PromptsGetResult{
			Messages: []mcp.PromptMessage{{
				Role:    "user",
				Content: mcp.PromptContent{Type: mcp.ContentTypeText, Text: "Hello, " + name + "!"},
			}},
		}, nil
	})
}

func registerDemoResource(s *mcp.Server) {
	const uri = "gomcp://demo/readme"
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodResourcesList, func(mcp.ResourcesListParams) (mcp.ResourcesListResult, *mcperr.Error) {
		return mcp.ResourcesListResult{Resources: []mcp.Resource{{
			URI:      uri,
			Name:     "readme",
			MimeType: "text/plain",
		}}}, nil
	})
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodResourcesRead, func(params mcp.ResourcesReadParams) (mcp.ResourcesReadResult, *mcperr.Error) {
		if params.URI != uri {
			return mcp.ResourcesReadResult{}, mcperr.InvalidParams("unknown resource: " + params.URI)
		}
		return mcp.ResourcesReadResult{Contents: []mcp.ResourceContents{{
			URI:      uri,
			MimeType: "text/plain",
			Text:     "This is a demo resource served by gomcp.",
		}}}, nil
	})
	jsonrpc.RegisterMethod(s.Methods(), mcp.MethodResourcesSubscribe, func(params mcp.ResourcesSubscribeParams) (jsonrpc.Empty, *mcperr.Error) {
		return jsonrpc.Empty{}, nil
	})
}
