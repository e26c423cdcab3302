package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/client"
	"github.com/allisson/passbox/internal/client/session"
	apperrors "github.com/allisson/passbox/internal/errors"
)

var (
	// ErrNotLoggedIn is returned by commands that need a stored login.
	ErrNotLoggedIn = errors.New("not logged in, run 'passbox login' first")

	// ErrSessionExpired is returned when the stored token is past its expiry.
	ErrSessionExpired = errors.New("session expired, run 'passbox login' again")
)

func promptUsername(streams IOTuple, username string) (string, error) {
	if username = accountDomain.NormalizeUsername(username); username != "" {
		return username, nil
	}
	username, err := promptLine(streams, "Username")
	if err != nil {
		return "", err
	}
	return accountDomain.NormalizeUsername(username), nil
}

// RunSignup registers username. The password is asked twice.
func RunSignup(ctx context.Context, c *client.Client, streams IOTuple, username string) error {
	username, err := promptUsername(streams, username)
	if err != nil {
		return err
	}
	password, err := promptNewPassword(streams, "Password")
	if err != nil {
		return err
	}

	err = withSpinner(streams.Writer, "Creating account...", func() error {
		return c.Signup(ctx, username, password)
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}

	printSuccess(streams.Writer, "Account %s created", username)
	printHint(streams.Writer, "Run 'passbox login %s' to start a session", username)
	return nil
}

// RunLogin authenticates username and stores the session for later commands.
func RunLogin(
	ctx context.Context,
	c *client.Client,
	store *session.Store,
	streams IOTuple,
	username string,
) error {
	username, err := promptUsername(streams, username)
	if err != nil {
		return err
	}
	password, err := promptSecret(streams, "Password")
	if err != nil {
		return err
	}

	var s *client.Session
	err = withSpinner(streams.Writer, "Logging in...", func() error {
		s, err = c.Login(ctx, username, password)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	defer s.Close()

	if err := store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	printSuccess(streams.Writer, "Logged in as %s", s.Username())
	if !store.Sealed() {
		printHint(streams.Writer, "The master key is not cached, commands will ask for your password")
	}
	return nil
}

// OpenSession reopens the stored login. A cached master key is used as is;
// otherwise the password is asked for and the master key unwrapped again.
func OpenSession(
	ctx context.Context,
	c *client.Client,
	store *session.Store,
	streams IOTuple,
) (*client.Session, error) {
	lookup, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !lookup.Found {
		return nil, ErrNotLoggedIn
	}

	saved := lookup.Saved
	expiresAt := saved.Credentials.ExpiresAt
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		saved.MasterKey.Destroy()
		return nil, ErrSessionExpired
	}

	if saved.MasterKey != nil {
		s, err := c.Resume(ctx, &saved.Credentials, saved.MasterKey)
		if err != nil {
			saved.MasterKey.Destroy()
			return nil, err
		}
		return s, nil
	}

	password, err := promptSecret(streams, "Password for "+saved.Credentials.Username)
	if err != nil {
		return nil, err
	}

	var s *client.Session
	err = withSpinner(streams.Writer, "Unlocking...", func() error {
		s, err = c.Unlock(ctx, &saved.Credentials, password)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unlock: %w", err)
	}
	return s, nil
}

// RunLogout revokes the stored token and forgets the login. A token the server
// already rejects still clears the local session.
func RunLogout(ctx context.Context, c *client.Client, store *session.Store, streams IOTuple) error {
	lookup, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !lookup.Found {
		printHint(streams.Writer, "Not logged in")
		return nil
	}

	s, err := c.Resume(ctx, &lookup.Saved.Credentials, lookup.Saved.MasterKey)
	if err != nil {
		lookup.Saved.MasterKey.Destroy()
		return err
	}
	logoutErr := s.Logout(ctx)

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	if logoutErr != nil && !apperrors.Is(logoutErr, apperrors.ErrUnauthorized) {
		return fmt.Errorf("failed to revoke token: %w", logoutErr)
	}

	printSuccess(streams.Writer, "Logged out")
	return nil
}

// RunChangePassword re-wraps the master key of the current session under a new
// password. Other sessions of the user are revoked by the server.
func RunChangePassword(ctx context.Context, s *client.Session, store *session.Store, streams IOTuple) error {
	oldPassword, err := promptSecret(streams, "Current password")
	if err != nil {
		return err
	}
	newPassword, err := promptNewPassword(streams, "New password")
	if err != nil {
		return err
	}

	err = withSpinner(streams.Writer, "Changing password...", func() error {
		return s.ChangePassword(ctx, oldPassword, newPassword)
	})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	if err := store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	printSuccess(streams.Writer, "Password changed for %s", s.Username())
	return nil
}

// RunWhoami prints the stored login without unlocking it.
func RunWhoami(ctx context.Context, store *session.Store, streams IOTuple) error {
	lookup, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !lookup.Found {
		printFailure(streams.Writer, "Not logged in")
		return nil
	}
	defer lookup.Saved.MasterKey.Destroy()

	creds := lookup.Saved.Credentials
	printSuccess(streams.Writer, "Logged in as %s", creds.Username)
	if !creds.ExpiresAt.IsZero() {
		printHint(streams.Writer, "Session expires at %s", creds.ExpiresAt.Local().Format(time.RFC1123))
	}
	if lookup.Saved.MasterKey != nil {
		printHint(streams.Writer, "Master key cached")
	}
	return nil
}
