package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"codexplain/internal/config"
	"codexplain/internal/delegate"
	"codexplain/internal/dispatch"
	"codexplain/internal/mcpserver"
	"codexplain/internal/server"
)

func main() {
	// Log to stderr; in MCP mode stdout carries JSON-RPC.
	log.SetOutput(os.Stderr)

	cfgPath := flag.String("config", "codexplain.yaml", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio instead of HTTP")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	reg := delegate.NewRegistry()
	registerDelegates(ctx, reg, cfg)

	disp := dispatch.New(reg, cfg.DelegateTimeout())

	if *mcpMode {
		srv, err := mcpserver.New(disp, reg)
		if err != nil {
			log.Fatalf("failed to create MCP server: %v", err)
		}
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("MCP server error: %v", err)
		}
		return
	}

	srv := server.New(disp, reg, cfg)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// registerDelegates wires the configured model backends. Registration order
// matters: the first registered delegate is the default provider.
func registerDelegates(ctx context.Context, reg *delegate.Registry, cfg *config.Config) {
	register := func(d delegate.Delegate) {
		reg.Register(delegate.Cached(d, cfg.Delegate.CacheSize))
	}

	// The configured default model belongs to the configured default provider.
	modelFor := func(provider string) string {
		if cfg.Delegate.Provider == provider {
			return cfg.Delegate.Model
		}
		return ""
	}

	gemini := func() {
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Println("[main] GEMINI_API_KEY not set, gemini delegate disabled")
			return
		}
		g, err := delegate.NewGemini(ctx, modelFor("gemini"))
		if err != nil {
			log.Printf("[main] warning: gemini delegate unavailable: %v", err)
			return
		}
		register(g)
	}
	ollama := func() {
		register(delegate.NewOllama(cfg.Delegate.OllamaHost, modelFor("ollama")))
	}

	if cfg.Delegate.Provider == "ollama" {
		ollama()
		gemini()
	} else {
		gemini()
		ollama()
	}
}
