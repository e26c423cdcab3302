package commands

import (
	"fmt"
	"log/slog"

	"github.com/allisson/passbox/internal/database"
)

// RunMigrations applies every pending migration under migrations/<driver dir>,
// relative to the working directory. Nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	dir, err := database.MigrationsDir(driver)
	if err != nil {
		return err
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	db, err := database.Connect(database.Config{
		Driver:           driver,
		ConnectionString: connectionString,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := database.Migrate(db, driver, "file://migrations/"+dir); err != nil {
		return err
	}

	logger.Info("migrations completed successfully")
	return nil
}
