// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/allisson/passbox/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

var errInputClosed = errors.New("input closed before a value was entered")

// terminalFd returns the descriptor behind v when it is an interactive terminal.
func terminalFd(v any) (int, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // descriptors fit in int
	return fd, term.IsTerminal(fd)
}

// readLine reads up to the next newline one byte at a time, so consecutive
// prompts can share a reader without losing buffered input.
func readLine(r io.Reader) (string, error) {
	var (
		sb  strings.Builder
		buf [1]byte
	)
	for {
		n, err := r.Read(buf[:])
		if n == 1 {
			if buf[0] == '\n' {
				return strings.TrimRight(sb.String(), "\r"), nil
			}
			sb.WriteByte(buf[0])
		}
		if errors.Is(err, io.EOF) {
			if sb.Len() == 0 {
				return "", errInputClosed
			}
			return strings.TrimRight(sb.String(), "\r"), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// promptLine asks for a visible value.
func promptLine(streams IOTuple, label string) (string, error) {
	_, _ = fmt.Fprintf(streams.Writer, "%s: ", label)
	value, err := readLine(streams.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return strings.TrimSpace(value), nil
}

// promptSecret asks for a value without echo when the reader is a terminal.
func promptSecret(streams IOTuple, label string) (string, error) {
	_, _ = fmt.Fprintf(streams.Writer, "%s: ", label)

	if fd, ok := terminalFd(streams.Reader); ok {
		value, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(streams.Writer)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", label, err)
		}
		return string(value), nil
	}

	value, err := readLine(streams.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return value, nil
}

// promptNewPassword asks for a password twice.
func promptNewPassword(streams IOTuple, label string) (string, error) {
	password, err := promptSecret(streams, label)
	if err != nil {
		return "", err
	}
	confirm, err := promptSecret(streams, "Confirm "+strings.ToLower(label))
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printFailure(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), fmt.Sprintf(format, args...))
}

func printHint(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", color.CyanString("→"), fmt.Sprintf(format, args...))
}

// writeJSON writes v indented, for machine consumption.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// withSpinner runs fn behind a spinner when w is a terminal. Slow steps are the
// password KDF and network round trips.
func withSpinner(w io.Writer, message string, fn func() error) error {
	if _, ok := terminalFd(w); !ok {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	defer s.Stop()

	return fn()
}
