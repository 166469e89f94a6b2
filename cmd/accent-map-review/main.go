package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/accent-map-mcp/internal/api"
	"github.com/ironsheep/accent-map-mcp/internal/config"
	"github.com/ironsheep/accent-map-mcp/internal/render"
)

// Version information - set by ldflags during build
var Version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("accent-map-review %s\n", Version)
			return
		case "--help", "-h", "help":
			fmt.Println("accent-map-review - HTTP API for accent map heatmaps and lasso queries")
			fmt.Println()
			fmt.Println("Usage: accent-map-review")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  ACCENT_MAP_CONFIG=<path>        YAML configuration file")
			fmt.Println("  ACCENT_MAP_ADDR=<host:port>     Listen address (default :8080)")
			fmt.Println("  ACCENT_MAP_LOG_LEVEL=debug      Enable debug logging")
			return
		}
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.SetupRouter(cfg, render.NewImageCache())
	log.Printf("Accent map review API v%s listening on %s", Version, cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
