// Package domain defines the record ownership model: content documents shared by
// one or more owners, each holding its own wrapped copy of the content key.
package domain

// Kind identifies what a record stores. The server treats every kind the same;
// clients use it to pick the field layout.
type Kind string

const (
	// KindCredential stores a site, a username and a password.
	KindCredential Kind = "credential"

	// KindTOTP stores an issuer, an account name and an MFA seed.
	KindTOTP Kind = "totp"

	// KindNote stores a title and a body.
	KindNote Kind = "note"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindCredential, KindTOTP, KindNote:
		return true
	}
	return false
}
