// Command letterboxed starts the Letter Boxed game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, data locations, debug logging, and version output.
// Every data flag also honors an environment variable so the server can be
// configured from a .env file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/wricardo/letterboxed/api"
	"github.com/wricardo/letterboxed/game/dictionary"
	"github.com/wricardo/letterboxed/game/puzzle"
	"github.com/wricardo/letterboxed/game/service"
	"github.com/wricardo/letterboxed/game/session"
	"github.com/wricardo/letterboxed/game/stats"
	"github.com/wricardo/letterboxed/transport/mcp"
	"github.com/wricardo/letterboxed/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Letter Boxed Game Server"
)

// Configuration flags control how the server starts and where it keeps its data.
var (
	port     = flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	host     = flag.String("host", envString("HOST", "localhost"), "HTTP server host")
	dictFile = flag.String("dictionary", envString("DICTIONARY_FILE", ""), "Word list file (embedded list when empty)")
	bankFile = flag.String("bank", envString("PUZZLE_BANK_FILE", ""), "Puzzle bank file (embedded bank when empty)")
	dataDir  = flag.String("data-dir", envString("DATA_DIR", "data"), "Directory for sessions and stats")
	statsDB  = flag.String("stats-db", envString("STATS_DB", ""), "Stats database path (defaults to <data-dir>/stats.db)")
	debug    = flag.Bool("debug", false, "Enable debug logging")
	version  = flag.Bool("version", false, "Show version information")
)

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	// Determine mode from command
	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Info().Str("app", AppName).Str("version", Version).Str("mode", mode).Msg("starting")

	gameService, err := initializeServices(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(gameService, log)

	case "server", "http":
		runHTTPServer(gameService, log)

	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode, use 'server' (default) or 'stdio-mcp'")
	}
}

// initializeServices wires the dictionary, puzzle bank, session persistence,
// and stats store into a game service.
func initializeServices(log zerolog.Logger) (service.GameService, error) {
	dict, err := dictionary.Load(*dictFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	log.Info().Int("words", len(dict.Words())).Msg("dictionary loaded")

	puzzles, err := puzzle.NewManager(*bankFile, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load puzzle bank: %w", err)
	}

	store, err := session.NewFileStore(filepath.Join(*dataDir, "sessions"))
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	sessions := session.NewManager(store, log)

	dbPath := *statsDB
	if dbPath == "" {
		dbPath = filepath.Join(*dataDir, "stats.db")
	}
	statsStore, err := stats.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats store: %w", err)
	}

	return service.NewGameService(dict, puzzles, sessions, statsStore, log), nil
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint, and blocks until a shutdown signal arrives.
func runHTTPServer(gameService service.GameService, log zerolog.Logger) {
	hub := websocket.NewHub(log)
	go hub.Run()

	apiServer := api.NewServer(gameService, hub, log)

	addr := fmt.Sprintf("%s:%d", *host, *port)

	// MCP over HTTP proxies through the same REST API the tools target
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

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
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?date=<date>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("server stopped")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable,
// it starts a minimal internal HTTP API bound to a random loopback port and
// targets that.
func runStdioMCPWithInternalServer(gameService service.GameService, log zerolog.Logger) {
	externalURL := "http://localhost:8080"
	baseURL := externalURL

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/healthz")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info().Str("url", externalURL).Msg("external API server found, using it for MCP")
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get available port")
		}
		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Info().Str("addr", internalAddr).Msg("starting internal HTTP server for MCP stdio")

		hub := websocket.NewHub(log)
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub, log)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()

		// Give the listener a beat before the first tool call
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatal().Err(err).Msg("MCP stdio server error")
	}
}
