package client

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// CorruptedMarker replaces a value that failed to decrypt in a listing.
const CorruptedMarker = "<corrupted>"

// The first field of every kind names the record.
var schemas = map[vaultDomain.Kind][]string{
	vaultDomain.KindCredential: {"site", "username", "password"},
	vaultDomain.KindTOTP:       {"issuer", "account", "secret"},
	vaultDomain.KindNote:       {"title", "body"},
}

// FieldNames returns the ordered field names of kind.
func FieldNames(kind vaultDomain.Kind) ([]string, error) {
	names, ok := schemas[kind]
	if !ok {
		return nil, vaultDomain.ErrInvalidKind
	}
	return append([]string(nil), names...), nil
}

func validateFields(kind vaultDomain.Kind, fields []string) error {
	names, err := FieldNames(kind)
	if err != nil {
		return err
	}
	if len(fields) != len(names) {
		return ErrFieldCount
	}
	if strings.TrimSpace(fields[0]) == "" {
		return ErrEmptyName
	}
	return nil
}

// fieldName tolerates documents carrying more fields than their schema.
func fieldName(kind vaultDomain.Kind, i int) string {
	if names := schemas[kind]; i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("field%d", i+1)
}

// Field is one decrypted value of an entry.
type Field struct {
	Name      string
	Value     string
	Corrupted bool
}

// Entry is a decrypted record as seen by one owner.
type Entry struct {
	KeyRecordID uuid.UUID
	DocumentID  uuid.UUID
	Kind        vaultDomain.Kind
	Name        string
	Fields      []Field
	Owners      []string
	Version     int64
	// Corrupted is set when the whole record could not be opened.
	Corrupted bool
}

func newEntry(
	keyRecord *vaultDomain.KeyRecord,
	doc *vaultDomain.ContentDocument,
	name string,
	values []string,
) *Entry {
	entry := &Entry{
		KeyRecordID: keyRecord.ID,
		DocumentID:  doc.ID,
		Kind:        doc.Kind,
		Name:        name,
		Fields:      make([]Field, len(values)),
		Owners:      ownerNames(doc),
		Version:     doc.Version,
	}
	for i, value := range values {
		entry.Fields[i] = Field{Name: fieldName(doc.Kind, i), Value: value}
	}
	return entry
}

func ownerNames(doc *vaultDomain.ContentDocument) []string {
	names := make([]string, 0, len(doc.Owners))
	for _, owner := range doc.Owners {
		names = append(names, owner.Username)
	}
	return names
}

// Field returns the field called name.
func (e *Entry) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values returns the field values in schema order.
func (e *Entry) Values() []string {
	values := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		values[i] = f.Value
	}
	return values
}

// Lookup is the result of a search. Entry is nil when Found is false.
type Lookup struct {
	Entry *Entry
	Found bool
}
