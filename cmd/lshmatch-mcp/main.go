package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ludo-technologies/lshmatch/internal/config"
	"github.com/ludo-technologies/lshmatch/internal/version"
	"github.com/ludo-technologies/lshmatch/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"
)

const serverName = "lshmatch"

func main() {
	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := pflag.StringP("config", "c", "", "Configuration file path")
	pflag.Parse()

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	cfg, err := config.LoadConfig(*configPath, workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Create MCP server with tool capabilities
	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(cfg, *configPath)))

	log.Printf("Starting %s MCP server %s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - find_similar_authors: Sample similar authors or texts from CSV files")
	log.Println("  - optimal_parameters: LSH band and row selection")
	log.Println("  - estimate_similarity: MinHash similarity of two texts")
	log.Println("Server ready - waiting for MCP client connection...")

	// Blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
