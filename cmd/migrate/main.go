package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-performance-api/pkg/config"
	"github.com/noah-isme/academic-performance-api/pkg/database"
	"github.com/noah-isme/academic-performance-api/pkg/logger"
)

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationDir), database.URL(cfg.Database))
	if err != nil {
		logr.Fatal("migration init failed", zap.Error(err))
	}
	defer m.Close() //nolint:errcheck

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logr.Fatal("migrate up failed", zap.Error(err))
		}
		logr.Info("migrated up")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logr.Fatal("migrate down failed", zap.Error(err))
		}
		logr.Info("migrated down")
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logr.Fatal("read version failed", zap.Error(err))
		}
		logr.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	case "force":
		if len(args) < 2 {
			logr.Fatal("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			logr.Fatal("invalid version", zap.String("version", args[1]), zap.Error(err))
		}
		if err := m.Force(v); err != nil {
			logr.Fatal("force failed", zap.Error(err))
		}
		logr.Info("forced schema version", zap.Int("version", v))
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
