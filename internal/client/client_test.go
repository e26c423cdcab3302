package client_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	accountService "github.com/allisson/passbox/internal/account/service"
	"github.com/allisson/passbox/internal/client"
	"github.com/allisson/passbox/internal/client/mocks"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	"github.com/allisson/passbox/internal/envelope"
)

func newTestClient() (*client.Client, *mocks.MockAccountBackend, accountService.MasterKeyService) {
	engine := cryptoService.NewDefaultEngine()
	masterKeys := accountService.NewMasterKeyService(engine)
	accounts := &mocks.MockAccountBackend{}
	return client.New(accounts, envelope.NewCodec(engine), masterKeys, client.Options{}), accounts, masterKeys
}

func TestClient_Signup(t *testing.T) {
	ctx := context.Background()
	c, accounts, _ := newTestClient()

	var registered *accountDomain.Registration
	accounts.On("Register", mock.Anything, mock.MatchedBy(func(r *accountDomain.Registration) bool {
		registered = r
		return r.Username == "alice"
	})).Return(nil).Once()

	require.NoError(t, c.Signup(ctx, " Alice ", "correct horse"))
	require.NotNil(t, registered)
	assert.NoError(t, registered.Enrollment.Validate())

	assert.ErrorIs(t, c.Signup(ctx, "alice", ""), client.ErrEmptyPassword)
	accounts.AssertExpectations(t)
}

func TestClient_LoginAndChangePassword(t *testing.T) {
	ctx := context.Background()
	c, accounts, masterKeys := newTestClient()

	enrollment, original, err := masterKeys.Enroll("old password")
	require.NoError(t, err)
	defer original.Destroy()

	expectedAuthenticator := enrollment.Authenticator
	creds := &client.Credentials{
		Token:       testToken,
		UserID:      uuid.New(),
		Username:    "alice",
		KeyMaterial: enrollment.KeyMaterial,
	}
	backend := &mocks.MockBackend{}

	accounts.On("PreLogin", mock.Anything, "alice").Return(&enrollment.KDFParams, nil).Once()
	accounts.On("Login", mock.Anything, "alice", expectedAuthenticator).Return(creds, nil).Once()
	accounts.On("Open", mock.Anything, testToken).Return(backend, nil).Once()

	session, err := c.Login(ctx, "Alice", "old password")
	require.NoError(t, err)
	defer session.Close()
	assert.Equal(t, "alice", session.Username())
	assertSameMasterKey(t, original, session.MasterKey())

	var change *accountDomain.CredentialChange
	backend.On("ChangeCredentials", mock.Anything, mock.MatchedBy(func(ch *accountDomain.CredentialChange) bool {
		change = ch
		return true
	})).Return(nil).Once()

	require.NoError(t, session.ChangePassword(ctx, "old password", "new password"))
	require.NotNil(t, change)

	updated := session.Credentials().KeyMaterial
	assert.NotEqual(t, enrollment.Salt, updated.Salt)

	unlocked, err := masterKeys.Unlock("new password", &updated)
	require.NoError(t, err)
	defer unlocked.Destroy()
	assertSameMasterKey(t, original, unlocked)

	_, err = masterKeys.Unlock("old password", &updated)
	assert.ErrorIs(t, err, accountDomain.ErrWrongPassword)
}

func TestClient_Login_WrongPasswordRejectedByServer(t *testing.T) {
	ctx := context.Background()
	c, accounts, masterKeys := newTestClient()

	enrollment, masterKey, err := masterKeys.Enroll("right")
	require.NoError(t, err)
	masterKey.Destroy()

	accounts.On("PreLogin", mock.Anything, "alice").Return(&enrollment.KDFParams, nil).Once()
	accounts.On("Login", mock.Anything, "alice", mock.Anything).
		Return(nil, accountDomain.ErrInvalidCredentials).Once()

	session, err := c.Login(ctx, "alice", "wrong")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, accountDomain.ErrInvalidCredentials)
	accounts.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

func TestClient_Unlock_WrongPassword(t *testing.T) {
	c, accounts, masterKeys := newTestClient()

	enrollment, masterKey, err := masterKeys.Enroll("right")
	require.NoError(t, err)
	masterKey.Destroy()

	_, err = c.Unlock(context.Background(), &client.Credentials{
		Token:       testToken,
		Username:    "alice",
		KeyMaterial: enrollment.KeyMaterial,
	}, "wrong")
	assert.ErrorIs(t, err, accountDomain.ErrWrongPassword)
	accounts.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

func assertSameMasterKey(t *testing.T, expected, actual *accountDomain.MasterKey) {
	t.Helper()

	var want, got []byte
	require.NoError(t, expected.Use(func(secret []byte) error {
		want = append([]byte(nil), secret...)
		return nil
	}))
	require.NoError(t, actual.Use(func(secret []byte) error {
		got = append([]byte(nil), secret...)
		return nil
	}))
	assert.Equal(t, want, got)
}
