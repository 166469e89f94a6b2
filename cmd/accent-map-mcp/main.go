package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/accent-map-mcp/internal/config"
	"github.com/ironsheep/accent-map-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("accent-map-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("accent-map-mcp - MCP server for accent map capture and review")
			fmt.Println()
			fmt.Println("Usage: accent-map-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  ACCENT_MAP_CONFIG=<path>        YAML configuration file")
			fmt.Println("  ACCENT_MAP_VIEW_WIDTH=<px>      Default viewport width")
			fmt.Println("  ACCENT_MAP_RECORDS=<path>       Records file loaded at startup")
			fmt.Println("  ACCENT_MAP_BACKGROUND=<path>    Reference map beneath renders")
			fmt.Println("  ACCENT_MAP_LOG_LEVEL=debug      Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Accent Map MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New(cfg)
	if cfg.Records != "" {
		if _, err := srv.Dataset().LoadFile(cfg.Records); err != nil {
			log.Printf("Records not loaded: %v", err)
		}
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
