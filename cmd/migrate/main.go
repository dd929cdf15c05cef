package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Rrens/nutrisaas-chat/internal/config"
	"github.com/Rrens/nutrisaas-chat/internal/repository/postgres"
)

const usage = "usage: migrate [up | down [steps] | version]"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if cfg.Database.Driver != config.DriverPostgres {
		fmt.Printf("Driver %q creates its schema on startup; nothing to migrate.\n", cfg.Database.Driver)
		return
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	fmt.Printf("Connecting to database at %s:%d...\n", cfg.Database.Host, cfg.Database.Port)
	dsn := cfg.Database.DSN()

	switch cmd {
	case "up":
		if err := postgres.RunMigrations(dsn); err != nil {
			fail(err)
		}
		fmt.Println("✅ Migrations applied")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps <= 0 {
				fail(fmt.Errorf("invalid step count %q", os.Args[2]))
			}
		}
		if err := postgres.RollbackMigrations(dsn, steps); err != nil {
			fail(err)
		}
		fmt.Printf("✅ Rolled back %d migration(s)\n", steps)

	case "version":
		version, dirty, err := postgres.MigrationVersion(dsn)
		if err != nil {
			fail(err)
		}
		fmt.Printf("version %d (dirty: %v)\n", version, dirty)

	default:
		fmt.Println(usage)
		os.Exit(2)
	}
}

func fail(err error) {
	fmt.Printf("⚠️  %v\n", err)
	os.Exit(1)
}
