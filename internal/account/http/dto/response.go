package dto

import (
	"time"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// KDFParamsResponse carries the public inputs to the password KDF.
type KDFParamsResponse struct {
	Salt       []byte `json:"salt"`
	Iterations int    `json:"iterations"`
}

// LoginResponse carries the bearer token and the wrapped master key material
// the client needs to unlock its master key.
type LoginResponse struct {
	Token            string            `json:"token"`
	ExpiresAt        time.Time         `json:"expires_at"`
	User             UserResponse      `json:"user"`
	WrappedMasterKey []byte            `json:"wrapped_master_key"`
	KDFParams        KDFParamsResponse `json:"kdf_params"`
}

// MapUserToResponse converts a domain user into its public view.
func MapUserToResponse(user *accountDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

// MapKDFParamsToResponse converts KDF parameters into a response.
func MapKDFParamsToResponse(params *accountDomain.KDFParams) KDFParamsResponse {
	return KDFParamsResponse{
		Salt:       params.Salt,
		Iterations: params.Iterations,
	}
}

// MapLoginResultToResponse converts a login result into a response.
func MapLoginResultToResponse(result *accountDomain.LoginResult) LoginResponse {
	material := result.User.KeyMaterial()
	return LoginResponse{
		Token:            result.PlainToken,
		ExpiresAt:        result.ExpiresAt,
		User:             MapUserToResponse(result.User),
		WrappedMasterKey: material.WrappedMasterKey,
		KDFParams:        MapKDFParamsToResponse(&material.KDFParams),
	}
}
