// Command migrate applies or rolls back the Duskvale database schema.
// It reads the database block of the game config and runs the SQL files
// under migrations/ with golang-migrate.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/viper"

	"github.com/duskvale/rpg/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "game config file with the database block")
	direction := flag.String("direction", "up", "apply migrations (up) or roll them back (down)")
	steps := flag.Int("steps", 0, "limit the run to this many migrations; 0 runs them all")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	v := viper.New()
	v.SetConfigFile(*configPath)
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("reading config: %v", err)
	}

	var dbCfg config.DatabaseConfig
	if err := v.Sub("database").Unmarshal(&dbCfg); err != nil {
		log.Fatalf("parsing database config: %v", err)
	}

	m, err := migrate.New(*source, dbCfg.DSN())
	if err != nil {
		log.Fatalf("opening migration source: %v", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		log.Fatalf("direction must be up or down, got %q", *direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("running migrations: %v", err)
	}

	version, dirty, _ := m.Version()
	elapsed := time.Since(start).Round(time.Millisecond)

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stdout, "schema already current at version %d (dirty=%v) in %s\n", version, dirty, elapsed)
		return
	}
	fmt.Fprintf(os.Stdout, "schema %s to version %d (dirty=%v) in %s\n", *direction, version, dirty, elapsed)
}
