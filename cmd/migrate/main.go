// Command migrate aplica o revierte las migraciones SQL embebidas.
//
//	migrate -cmd up
//	migrate -cmd down -steps 1
//	migrate -cmd version
package main

import (
	"flag"

	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "up | down | version")
	steps := flag.Int("steps", 1, "migraciones a revertir con -cmd down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if !cfg.DB.Configured() {
		log.Fatal().Msg("DATABASE_URL o DB_HOST requerido")
	}
	url := cfg.DB.ConnectionString()

	switch *cmd {
	case "up":
		if err := postgres.MigrateUp(url); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
	case "down":
		if err := postgres.MigrateDown(url, *steps); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
	case "version":
	default:
		log.Fatal().Str("cmd", *cmd).Msg("comando desconocido")
	}

	version, dirty, err := postgres.MigrationVersion(url)
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Str("cmd", *cmd).Msg("migraciones")
}
