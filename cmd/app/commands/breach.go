package commands

import (
	"context"
	"fmt"

	"github.com/allisson/passbox/internal/client"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// BreachCounter counts how often a password appears in known breaches.
type BreachCounter interface {
	Count(ctx context.Context, password string) (int, error)
}

// RunCheckPassword checks one password, asked for without echo.
func RunCheckPassword(ctx context.Context, checker BreachCounter, streams IOTuple, format string) error {
	password, err := promptSecret(streams, "Password to check")
	if err != nil {
		return err
	}

	var count int
	err = withSpinner(streams.Writer, "Checking...", func() error {
		count, err = checker.Count(ctx, password)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to check password: %w", err)
	}

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{"breached": count > 0, "count": count})
	}
	if count > 0 {
		printFailure(streams.Writer, "Password seen %d time(s) in known breaches", count)
		return nil
	}
	printSuccess(streams.Writer, "Password not found in known breaches")
	return nil
}

type auditResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RunAudit checks the password of every stored credential. Only breached
// credentials are reported.
func RunAudit(ctx context.Context, s *client.Session, checker BreachCounter, streams IOTuple, format string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	breached := []auditResult{}
	checked := 0
	err = withSpinner(streams.Writer, "Auditing passwords...", func() error {
		for _, entry := range entries {
			if entry.Kind != vaultDomain.KindCredential || entry.Corrupted {
				continue
			}
			password, ok := entry.Field("password")
			if !ok || password.Corrupted || password.Value == "" {
				continue
			}

			count, err := checker.Count(ctx, password.Value)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", entry.Name, err)
			}
			checked++
			if count > 0 {
				breached = append(breached, auditResult{ID: entry.KeyRecordID.String(), Name: entry.Name, Count: count})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{"checked": checked, "breached": breached})
	}
	for _, result := range breached {
		printFailure(streams.Writer, "%s (%s) seen %d time(s) in known breaches", result.Name, result.ID, result.Count)
	}
	if len(breached) == 0 {
		printSuccess(streams.Writer, "No breached passwords among %d credential(s)", checked)
	}
	return nil
}
