package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	authUseCase "github.com/allisson/passbox/internal/auth/usecase"
	sharingUseCase "github.com/allisson/passbox/internal/sharing/usecase"
)

// RunCleanExpiredTokens deletes bearer tokens that expired or were revoked.
func RunCleanExpiredTokens(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	return runCleanup(logger, writer, format, "token", func() (int64, error) {
		return tokenUseCase.CleanupExpired(ctx)
	})
}

// RunCleanExpiredShares deletes share offers that expired before now without
// being accepted or declined.
func RunCleanExpiredShares(
	ctx context.Context,
	useCase sharingUseCase.SharingUseCase,
	logger *slog.Logger,
	writer io.Writer,
	now time.Time,
	format string,
) error {
	logger.Debug("share cutoff", slog.Time("now", now))
	return runCleanup(logger, writer, format, "share", func() (int64, error) {
		return useCase.CleanExpired(ctx, now)
	})
}

// runCleanup runs a maintenance delete and reports how many rows went away.
func runCleanup(logger *slog.Logger, writer io.Writer, format, noun string, clean func() (int64, error)) error {
	logger.Info("cleaning expired rows", slog.String("kind", noun))

	count, err := clean()
	if err != nil {
		return fmt.Errorf("failed to cleanup expired %ss: %w", noun, err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"kind": noun, "deleted": count}); err != nil {
			return err
		}
	} else {
		printSuccess(writer, "Deleted %d expired %s(s)", count, noun)
	}

	logger.Info("cleanup completed", slog.String("kind", noun), slog.Int64("count", count))
	return nil
}
