package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/avashist/campusdesk/internal/api"
	"github.com/avashist/campusdesk/internal/auth"
	"github.com/avashist/campusdesk/internal/config"
	"github.com/avashist/campusdesk/internal/db"
	"github.com/avashist/campusdesk/internal/mcp"
	"github.com/avashist/campusdesk/pkg/audit"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Printf("campusdesk %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`campusdesk - admin/student helpdesk portal

Usage:
  campusdesk serve [--config config.toml] [--addr :8080]
  campusdesk mcp [--config config.toml]
  campusdesk version
  campusdesk help

Commands:
  serve     Start the HTTP server
  mcp       Serve helpdesk tools over MCP stdio
  version   Print version
  help      Show this help`)
}

func loadConfig(args []string) (*config.Config, *flag.FlagSet) {
	fs := flag.NewFlagSet("campusdesk", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	// .env first, so CAMPUSDESK_JWT_SECRET can live next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg, fs
}

func cmdServe(args []string) {
	cfg, _ := loadConfig(args)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	a := auth.New(cfg.Auth.JWTSecret, cfg.Auth.StudentTokenExpiryMin, cfg.Auth.AdminTokenExpiryMin)
	apiHandler := api.New(database, a, cfg.Chat)

	auditLog := audit.NewSQLiteLogger(database.DB)
	defer auditLog.Close()
	apiHandler.SetAuditLog(auditLog)

	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)

	handler := api.CORS(api.SecurityHeaders(mux))

	log.Printf("campusdesk %s listening on %s", version, cfg.Server.Addr)
	log.Printf("database: %s", cfg.Database.Path)

	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func cmdMCP(args []string) {
	cfg, _ := loadConfig(args)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	srv := mcp.NewServer(database)
	if err := mcp.ServeStdio(srv); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
