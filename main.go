// Command battleship starts the Battleship Online server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the game WebSocket, a read-only REST API, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the rules directory and preset, debug logging,
// version output, and optional ngrok tunneling for easy external access
// during development. Every flag can also be set from the environment or a
// .env file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/battleship-online/api"
	"github.com/wricardo/battleship-online/game/config"
	"github.com/wricardo/battleship-online/game/service"
	"github.com/wricardo/battleship-online/game/session"
	"github.com/wricardo/battleship-online/transport/mcp"
	"github.com/wricardo/battleship-online/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Battleship Online Server"
)

const (
	defaultRulesDir = "rules"
	staticDir       = "./static/"
)

// options is the resolved command line and environment configuration.
type options struct {
	host        string
	port        int
	rulesDir    string
	rules       string
	debug       bool
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// app holds the wired game components.
type app struct {
	registry *session.Registry
	hub      *websocket.Hub
	service  service.GameService
}

// main loads .env, then parses flags and runs the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

// newCommand builds the CLI. Flags are declared on the root so they apply to
// every mode.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "battleship",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "rules-dir",
				Value:   defaultRulesDir,
				Usage:   "Directory containing rule presets",
				Sources: cli.EnvVars("RULES_DIR"),
			},
			&cli.StringFlag{
				Name:    "rules",
				Usage:   "Rule preset to play by (default classic)",
				Sources: cli.EnvVars("RULES"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with WebSocket, REST API, and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
		},
		Action: runServer,
	}
}

// optionsFrom reads the resolved flag values. A missing default rules
// directory falls back to the built-in rules; an explicit one must exist.
func optionsFrom(cmd *cli.Command) options {
	opts := options{
		host:        cmd.String("host"),
		port:        cmd.Int("port"),
		rulesDir:    cmd.String("rules-dir"),
		rules:       cmd.String("rules"),
		debug:       cmd.Bool("debug"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}

	if !cmd.IsSet("rules-dir") {
		if _, err := os.Stat(opts.rulesDir); os.IsNotExist(err) {
			opts.rulesDir = ""
		}
	}

	return opts
}

func setupLogging(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// initializeServices wires the rules manager, session registry, hub and game
// service together.
func initializeServices(opts options) (*app, error) {
	rules, err := config.NewManager(opts.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create rules manager: %w", err)
	}

	if opts.rules != "" {
		if err := rules.SetDefault(opts.rules); err != nil {
			return nil, fmt.Errorf("failed to select rules %q: %w", opts.rules, err)
		}
	}

	registry := session.NewRegistry()
	hub := websocket.NewHub()
	gameService := service.NewGameService(registry, rules, hub)
	hub.Attach(gameService)

	active := rules.GetDefault()
	log.Printf("Playing by %q rules (turn rule: %s, ends when fleet sunk: %t)",
		active.Name, active.TurnRule, active.EndWhenFleetSunk)

	return &app{
		registry: registry,
		hub:      hub,
		service:  gameService,
	}, nil
}

// newRouter mounts the REST API, the WebSocket endpoint, the /mcp proxy and
// the static files.
func newRouter(a *app, mcpClient *mcp.Client) http.Handler {
	apiServer := api.NewServer(a.service, a.hub)
	if mcpClient != nil {
		apiServer.Handle("/mcp", mcpHandler(mcpClient), "POST")
	}
	apiServer.ServeStatic(staticDir)
	return apiServer
}

// mcpHandler answers single JSON-RPC MCP messages over HTTP POST.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runServer starts the HTTP server with the game WebSocket, REST API and an
// /mcp proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	setupLogging(opts.debug)

	log.Printf("Starting %s v%s (mode: server)", AppName, Version)

	a, err := initializeServices(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer a.registry.Close()

	go a.hub.Run()

	addr := opts.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	router := newRouter(a, mcpClient)

	// WriteTimeout stays unset: hijacked WebSocket connections manage their
	// own deadlines.
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runTunnel(ctx, opts, router)
		}()
	}

	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case err := <-serverErr:
		cancel()
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runTunnel serves handler through an ngrok tunnel until ctx is cancelled.
func runTunnel(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(opts.ngrokAuth),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  Game UI (ngrok): %s/", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// the configured address; otherwise it starts an internal HTTP API on a random
// loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	setupLogging(opts.debug)

	log.Printf("Starting %s v%s (mode: stdio-mcp)", AppName, Version)

	externalURL := fmt.Sprintf("http://%s", opts.addr())
	baseURL := resolveAPI(externalURL)
	if baseURL == "" {
		log.Printf("No external API server found, starting internal HTTP server")

		a, err := initializeServices(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer a.registry.Close()
		go a.hub.Run()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: newRouter(a, nil)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("Internal HTTP server on %s for MCP stdio", baseURL)
	} else {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// resolveAPI returns url when a healthy API answers there, or "" otherwise.
func resolveAPI(url string) string {
	log.Printf("Checking for external API server at %s...", url)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url + "/api/health")
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return url
}
