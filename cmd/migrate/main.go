package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	constants "github.com/Alarion239/studentrecords/internal/constants"
	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/Alarion239/studentrecords/migrations"
	"github.com/Alarion239/studentrecords/pkg/migrate"
)

func main() {
	envFile := pflag.String("env-file", ".env", "file with environment variables to load")
	pflag.Usage = printUsage
	// Stop at the command so "steps -1" is not read as a flag.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	args := pflag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	if command == "help" {
		printUsage()
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogError("Failed to load env file", err, "path", *envFile)
		os.Exit(1)
	}

	ctx := context.Background()

	connectionString := os.Getenv(constants.DATABASE_URL)
	if connectionString == "" {
		logger.LogError("DATABASE_URL environment variable is not set", nil)
		os.Exit(1)
	}
	migrator, err := migrate.NewMigrator(ctx, connectionString, migrations.FS)
	if err != nil {
		logger.LogError("Failed to create migrator", err)
		os.Exit(1)
	}
	defer migrator.Close(ctx)

	switch command {
	case "up":
		handleUp(ctx, migrator)
	case "down":
		handleDown(ctx, migrator)
	case "steps":
		handleSteps(ctx, migrator, args[1:])
	case "version", "status":
		handleVersion(ctx, migrator)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleUp(ctx context.Context, migrator *migrate.Migrator) {
	logger.LogInfo("Applying migrations...")
	if err := migrator.Up(ctx); err != nil {
		logger.LogError("Failed to apply migrations", err)
		os.Exit(1)
	}
	logger.LogInfo("Migrations applied successfully!")
}

func handleDown(ctx context.Context, migrator *migrate.Migrator) {
	logger.LogInfo("Rolling back migration...")
	if err := migrator.Down(ctx); err != nil {
		logger.LogError("Failed to rollback migration", err)
		os.Exit(1)
	}
	logger.LogInfo("Migration rolled back successfully!")
}

func handleSteps(ctx context.Context, migrator *migrate.Migrator, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: 'steps' command requires a number argument\n")
		os.Exit(1)
	}

	steps, err := strconv.Atoi(args[0])
	if err != nil {
		logger.LogError("Invalid number", err)
		os.Exit(1)
	}

	if err := migrator.Steps(ctx, steps); err != nil {
		logger.LogError("Failed to execute steps", err)
		os.Exit(1)
	}
}

func handleVersion(ctx context.Context, migrator *migrate.Migrator) {
	version, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		logger.LogError("Failed to get current version", err)
		os.Exit(1)
	}

	if version == migrate.NoVersion {
		fmt.Println("No migrations applied")
		return
	}
	fmt.Printf("Current migration version: %d\n", version)
}

func printUsage() {
	fmt.Fprintf(os.Stdout, `Usage: migrate [--env-file path] <command>

Commands:
  up                  Apply all pending migrations
  down                Rollback the last migration
  steps <number>      Apply or rollback specific number of migrations
                      (positive for up, negative for down)
  version, status     Show current migration version
  help                Show this help message

Flags:
  --env-file path     Load environment variables from path (default .env)

Environment Variables:
  %s        Database connection URL

Examples:
  migrate up
  migrate down
  migrate steps 2
  migrate steps -1
  migrate --env-file prod.env version
`, constants.DATABASE_URL)
}
