package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/allisson/passbox/internal/client"
)

// RunShare offers a record to receiver and prints the link to hand over. The
// link carries the only copy of the share secret.
func RunShare(
	ctx context.Context,
	s *client.Session,
	streams IOTuple,
	id, receiver string,
	format string,
) error {
	recordID, err := parseRecordID(id)
	if err != nil {
		return err
	}

	link, err := s.Share(ctx, recordID, receiver)
	if err != nil {
		return fmt.Errorf("failed to share record: %w", err)
	}

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"share_id":   link.ShareID.String(),
			"link":       link.URL,
			"expires_at": link.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
	printSuccess(streams.Writer, "Shared with %s", receiver)
	_, _ = fmt.Fprintln(streams.Writer, link.URL)
	printHint(streams.Writer, "Send this link privately, it expires at %s", link.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

// RunShowShare describes the record behind a share link without accepting it.
func RunShowShare(ctx context.Context, s *client.Session, streams IOTuple, link, format string) error {
	offer, err := s.Resolve(ctx, link)
	if err != nil {
		return fmt.Errorf("failed to open share: %w", err)
	}

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"share_id":    offer.ShareID.String(),
			"document_id": offer.DocumentID.String(),
			"kind":        string(offer.Kind),
			"name":        offer.Name,
			"expires_at":  offer.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
	_, _ = fmt.Fprintf(streams.Writer, "%s (%s)\n", offer.Name, offer.Kind)
	printHint(streams.Writer, "Run 'passbox share accept' or 'passbox share decline' with the same link")
	return nil
}

// RunAcceptShare adds the shared record to the session user's vault.
func RunAcceptShare(ctx context.Context, s *client.Session, streams IOTuple, link, format string) error {
	entry, err := s.Accept(ctx, link)
	if err != nil {
		return fmt.Errorf("failed to accept share: %w", err)
	}

	view := newEntryView(entry, false)
	if format == "json" {
		return writeJSON(streams.Writer, view)
	}
	printSuccess(streams.Writer, "Accepted %s %s", view.Kind, view.Name)
	printHint(streams.Writer, "Record id %s", view.ID)
	return nil
}

// RunDeclineShare discards a share offered to the session user.
func RunDeclineShare(ctx context.Context, s *client.Session, streams IOTuple, link string) error {
	if err := s.Decline(ctx, link); err != nil {
		return fmt.Errorf("failed to decline share: %w", err)
	}
	printSuccess(streams.Writer, "Share declined")
	return nil
}

// RunRevoke removes username from the owners of a record.
func RunRevoke(ctx context.Context, s *client.Session, streams IOTuple, id, username string) error {
	recordID, err := parseRecordID(id)
	if err != nil {
		return err
	}

	if err := s.Revoke(ctx, recordID, username); err != nil {
		return fmt.Errorf("failed to revoke %s: %w", username, err)
	}
	printSuccess(streams.Writer, "Revoked %s from record %s", username, recordID)
	return nil
}
