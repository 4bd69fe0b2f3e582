package main

import (
	"flag"
	"log"

	"os-sistema/pkg/config"
	"os-sistema/pkg/database/postgresql"
)

func main() {
	dir := flag.String("dir", "migrations", "diretório das migrações")
	flag.Parse()

	cfg := config.New()

	if err := postgresql.Migrate(cfg.Postgres.DSN, *dir); err != nil {
		log.Fatalf("falha ao aplicar migrações: %v", err)
	}
	log.Println("migrações aplicadas")
}
