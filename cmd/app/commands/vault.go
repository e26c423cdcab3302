package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/allisson/passbox/internal/client"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

const maskedValue = "********"

type fieldView struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Corrupted bool   `json:"corrupted,omitempty"`
}

type entryView struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"document_id"`
	Kind       string      `json:"kind"`
	Name       string      `json:"name"`
	Fields     []fieldView `json:"fields,omitempty"`
	Owners     []string    `json:"owners,omitempty"`
	Version    int64       `json:"version"`
	Corrupted  bool        `json:"corrupted,omitempty"`
}

// secretField reports whether a field is masked unless revealed.
func secretField(name string) bool {
	return name == "password" || name == "secret"
}

func newEntryView(entry *client.Entry, reveal bool) entryView {
	view := entryView{
		ID:         entry.KeyRecordID.String(),
		DocumentID: entry.DocumentID.String(),
		Kind:       string(entry.Kind),
		Name:       entry.Name,
		Owners:     entry.Owners,
		Version:    entry.Version,
		Corrupted:  entry.Corrupted,
	}
	for _, f := range entry.Fields {
		value := f.Value
		if !reveal && !f.Corrupted && secretField(f.Name) {
			value = maskedValue
		}
		view.Fields = append(view.Fields, fieldView{Name: f.Name, Value: value, Corrupted: f.Corrupted})
	}
	return view
}

func writeEntry(w io.Writer, view entryView) {
	if view.Corrupted {
		_, _ = fmt.Fprintf(w, "%s %s\n", color.RedString(view.Name), color.RedString("(corrupted)"))
	} else {
		_, _ = fmt.Fprintf(w, "%s (%s)\n", color.New(color.Bold).Sprint(view.Name), view.Kind)
	}
	_, _ = fmt.Fprintf(w, "  id: %s\n", view.ID)
	for _, f := range view.Fields {
		value := f.Value
		if f.Corrupted {
			value = color.RedString(value)
		}
		_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Name, value)
	}
	if len(view.Owners) > 0 {
		_, _ = fmt.Fprintf(w, "  owners: %s\n", strings.Join(view.Owners, ", "))
	}
}

func parseRecordID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid record id %q", id)
	}
	return parsed, nil
}

func parseKind(kind string) (vaultDomain.Kind, error) {
	k := vaultDomain.Kind(strings.ToLower(strings.TrimSpace(kind)))
	if !k.Valid() {
		return "", fmt.Errorf(
			"invalid kind: %s (valid options: %s, %s, %s)",
			kind, vaultDomain.KindCredential, vaultDomain.KindTOTP, vaultDomain.KindNote,
		)
	}
	return k, nil
}

// promptFields asks for every field of kind. Secrets are read without echo.
// An empty answer keeps the matching entry of current, when given.
func promptFields(streams IOTuple, kind vaultDomain.Kind, current []string) ([]string, error) {
	names, err := client.FieldNames(kind)
	if err != nil {
		return nil, err
	}

	fields := make([]string, len(names))
	for i, name := range names {
		label := name
		if current != nil {
			label += " (empty keeps current)"
		}

		var value string
		if secretField(name) {
			value, err = promptSecret(streams, label)
		} else {
			value, err = promptLine(streams, label)
		}
		if err != nil {
			return nil, err
		}
		if value == "" && i < len(current) {
			value = current[i]
		}
		fields[i] = value
	}
	return fields, nil
}

// RunAdd creates a record. Fields are asked for interactively when none are given.
func RunAdd(
	ctx context.Context,
	s *client.Session,
	streams IOTuple,
	kind string,
	fields []string,
	format string,
) error {
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		if fields, err = promptFields(streams, k, nil); err != nil {
			return err
		}
	}

	result, err := s.Create(ctx, k, fields)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", k, err)
	}

	if format == "json" {
		return writeJSON(streams.Writer, map[string]string{
			"id":          result.KeyRecordID.String(),
			"document_id": result.ContentDocumentID.String(),
		})
	}
	printSuccess(streams.Writer, "Added %s %s", k, fields[0])
	printHint(streams.Writer, "Record id %s", result.KeyRecordID)
	return nil
}

// RunGet prints one record. Secret fields are masked unless reveal is set.
func RunGet(ctx context.Context, s *client.Session, streams IOTuple, id string, reveal bool, format string) error {
	recordID, err := parseRecordID(id)
	if err != nil {
		return err
	}

	entry, err := s.Read(ctx, recordID)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	view := newEntryView(entry, reveal)
	if format == "json" {
		return writeJSON(streams.Writer, view)
	}
	writeEntry(streams.Writer, view)
	return nil
}

// RunList prints every record of the session user. Records or fields that
// cannot be decrypted are shown as corrupted instead of failing the listing.
func RunList(ctx context.Context, s *client.Session, streams IOTuple, reveal bool, format string) error {
	var entries []*client.Entry
	err := withSpinner(streams.Writer, "Decrypting vault...", func() error {
		var err error
		entries, err = s.List(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry, reveal))
	}

	if format == "json" {
		return writeJSON(streams.Writer, views)
	}
	if len(views) == 0 {
		printHint(streams.Writer, "Vault is empty")
		return nil
	}

	tw := tabwriter.NewWriter(streams.Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tKIND\tNAME\tOWNERS")
	for _, view := range views {
		name := view.Name
		if view.Corrupted {
			name += " (corrupted)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", view.ID, view.Kind, name, strings.Join(view.Owners, ","))
	}
	return tw.Flush()
}

// RunUpdate replaces the fields of a record for every owner. Without fields the
// current values are offered for editing.
func RunUpdate(ctx context.Context, s *client.Session, streams IOTuple, id string, fields []string) error {
	recordID, err := parseRecordID(id)
	if err != nil {
		return err
	}

	if len(fields) == 0 {
		entry, err := s.Read(ctx, recordID)
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if fields, err = promptFields(streams, entry.Kind, entry.Values()); err != nil {
			return err
		}
	}

	if err := s.Update(ctx, recordID, fields); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	printSuccess(streams.Writer, "Updated record %s", recordID)
	return nil
}

// RunDelete removes the session user from a record. The content is destroyed
// only when no other owner remains.
func RunDelete(ctx context.Context, s *client.Session, streams IOTuple, id string) error {
	recordID, err := parseRecordID(id)
	if err != nil {
		return err
	}

	if err := s.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	printSuccess(streams.Writer, "Deleted record %s", recordID)
	return nil
}

// RunFind looks up the credential stored for site and username.
func RunFind(
	ctx context.Context,
	s *client.Session,
	streams IOTuple,
	site, username string,
	reveal bool,
	format string,
) error {
	lookup, err := s.FindCredential(ctx, site, username)
	if err != nil {
		return fmt.Errorf("failed to search credentials: %w", err)
	}

	if format == "json" {
		result := map[string]any{"found": lookup.Found}
		if lookup.Found {
			result["entry"] = newEntryView(lookup.Entry, reveal)
		}
		return writeJSON(streams.Writer, result)
	}

	if !lookup.Found {
		printFailure(streams.Writer, "No credential for %s at %s", username, site)
		return nil
	}
	writeEntry(streams.Writer, newEntryView(lookup.Entry, reveal))
	return nil
}
