package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-ledger/internal/config"
	"github.com/carson-networks/expense-ledger/internal/logging"
	"github.com/carson-networks/expense-ledger/internal/store/sqlitestore"
)

func main() {
	cfg, err := config.Load(os.Getenv("LEDGER_CONFIG_FILE"))
	if err != nil {
		logrus.WithError(err).Fatal("config.Load")
		return
	}

	log := logging.SetupLogging(cfg.LogLevel)

	if cfg.StoreDriver != "sqlite" {
		log.WithField("driver", cfg.StoreDriver).Info("No migrations for this store driver")
		return
	}

	_, db, err := sqlitestore.Open(cfg.StorePath)
	if err != nil {
		log.WithError(err).Fatal("sqlitestore.Open")
		return
	}
	defer db.Close()

	preMigrationVersion, postMigrationVersion, err := sqlitestore.Migrate(db)
	if err != nil {
		log.WithError(err).Fatal("sqlitestore.Migrate")
		return
	}

	log.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
}
