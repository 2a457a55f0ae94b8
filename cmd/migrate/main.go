package main

import (
	"flag"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/havelock/pairbook/config"
	"github.com/havelock/pairbook/pkg/infra"
	"github.com/havelock/pairbook/pkg/logging"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	sync, err := logging.Init(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer sync()

	mgTool := infra.GetMigrateTool()
	mgTool.Migrate("file://migration/sql", cfg.MarketDB.MigrationConnURL)
}
