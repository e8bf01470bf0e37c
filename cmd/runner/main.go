package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/runner"
	"github.com/joho/godotenv"
)

// The runner starts the whole stack as sibling processes — ingestion
// listener, level API, frontend dev server — and keeps them together:
// Ctrl+C stops everything, and one sibling dying stops the others.
func main() {
	log.Println("🚦 Caixa d'Água Process Runner")

	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found: %v", err)
	}

	children := buildChildren()
	if len(children) == 0 {
		log.Fatal("❌ No processes configured (set LISTENER_CMD, API_CMD or FRONTEND_DIR)")
	}
	for _, c := range children {
		log.Printf("   %s: %s", c.Name, strings.Join(c.Cmd, " "))
	}

	grace := 5 * time.Second
	if v := os.Getenv("RUNNER_GRACE_PERIOD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			grace = d
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup := runner.New(children, grace)
	if err := sup.Run(ctx); err != nil {
		log.Printf("❌ Runner finished with error: %v", err)
		os.Exit(1)
	}
}

// buildChildren assembles the child set from environment variables.
// Every sibling is optional so partial stacks (API only, no frontend)
// still run.
func buildChildren() []runner.Child {
	var children []runner.Child

	if cmd := commandEnv("LISTENER_CMD", "go run ./cmd/listener"); cmd != nil {
		children = append(children, runner.Child{Name: "listener", Cmd: cmd})
	}

	if cmd := commandEnv("API_CMD", "go run ./cmd/server"); cmd != nil {
		children = append(children, runner.Child{Name: "api", Cmd: cmd})
	}

	// Frontend only runs when its directory is configured; the manager
	// and command mirror the usual yarn dev / npm run dev setups
	if dir := os.Getenv("FRONTEND_DIR"); dir != "" {
		manager := os.Getenv("FRONTEND_MANAGER")
		if manager == "" {
			manager = "yarn"
		}
		command := os.Getenv("FRONTEND_COMMAND")
		if command == "" {
			command = "dev"
		}
		children = append(children, runner.Child{
			Name: "frontend",
			Cmd:  []string{manager, command},
			Dir:  dir,
		})
	}

	return children
}

// commandEnv splits a command line from the environment, falling back
// to a default; the explicit value "off" disables the child
func commandEnv(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	if value == "off" {
		return nil
	}
	return strings.Fields(value)
}
