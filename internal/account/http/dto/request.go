// Package dto provides data transfer objects for the account HTTP layer.
// Binary fields travel as standard base64 strings.
package dto

import (
	validation "github.com/jellydator/validation"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	customValidation "github.com/allisson/passbox/internal/validation"
)

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		customValidation.NotBlank,
		validation.Length(3, 64),
		customValidation.Username,
	}
}

// EnrollmentRequest carries the authenticator and key material produced by a
// client enrollment.
type EnrollmentRequest struct {
	Authenticator    []byte `json:"authenticator"`
	WrappedMasterKey []byte `json:"wrapped_master_key"`
	Salt             []byte `json:"salt"`
	Iterations       int    `json:"iterations"`
}

// Validate checks that every field of the enrollment is present.
func (r EnrollmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Authenticator, validation.Required, validation.Length(cryptoDomain.KeySize, cryptoDomain.KeySize)),
		validation.Field(&r.WrappedMasterKey, validation.Required),
		validation.Field(&r.Salt, validation.Required, validation.Length(cryptoDomain.SaltSize, cryptoDomain.SaltSize)),
		validation.Field(&r.Iterations, validation.Required, validation.Min(cryptoDomain.MinIterations)),
	)
}

// ToDomain converts the request into a domain enrollment.
func (r EnrollmentRequest) ToDomain() accountDomain.Enrollment {
	return accountDomain.Enrollment{
		Authenticator: r.Authenticator,
		KeyMaterial: accountDomain.KeyMaterial{
			WrappedMasterKey: r.WrappedMasterKey,
			KDFParams: accountDomain.KDFParams{
				Salt:       r.Salt,
				Iterations: r.Iterations,
			},
		},
	}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	EnrollmentRequest
}

// Validate checks if the register request is valid.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, usernameRules()...),
		validation.Field(&r.EnrollmentRequest),
	)
}

// PreLoginRequest asks for the KDF parameters of a username.
type PreLoginRequest struct {
	Username string `json:"username"`
}

// Validate checks if the pre-login request is valid.
func (r *PreLoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
	)
}

// LoginRequest contains the credentials for issuing a token.
type LoginRequest struct {
	Username      string `json:"username"`
	Authenticator []byte `json:"authenticator"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Authenticator, validation.Required),
	)
}

// ChangeCredentialsRequest replaces the authenticator and key material of the
// calling account.
type ChangeCredentialsRequest struct {
	OldAuthenticator []byte `json:"old_authenticator"`
	EnrollmentRequest
}

// Validate checks if the change credentials request is valid.
func (r *ChangeCredentialsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OldAuthenticator, validation.Required),
		validation.Field(&r.EnrollmentRequest),
	)
}
