// Package admin implements the operator command line: creating accounts
// directly against the user store without going through HTTP.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/dmitrijs2005/promptkeeper/internal/server/config"
	"github.com/dmitrijs2005/promptkeeper/internal/server/models"
	"github.com/dmitrijs2005/promptkeeper/internal/server/services"
)

// ErrEphemeralStore is returned for a DSN whose data would not outlive the
// command.
var ErrEphemeralStore = errors.New("admin: the in-memory store does not persist accounts; set a PostgreSQL DSN")

// CheckDSN rejects DSNs the admin command cannot usefully write to.
func CheckDSN(dsn string) error {
	if strings.EqualFold(strings.TrimSpace(dsn), config.MemoryDSN) {
		return ErrEphemeralStore
	}
	return nil
}

// Registrar is the part of the credential service the CLI uses.
type Registrar interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
}

type App struct {
	users  Registrar
	reader *bufio.Reader
	out    io.Writer
	fd     int
}

// NewApp reads answers from in and hidden passwords from the terminal fd.
func NewApp(r Registrar, in io.Reader, out io.Writer, fd int) *App {
	return &App{users: r, reader: bufio.NewReader(in), out: out, fd: fd}
}

// CreateUser prompts for name, email and password twice, then registers
// the account. Validation failures are reported with the service's message.
func (a *App) CreateUser(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return fmt.Errorf("read name: %w", err)
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}

	password, err := GetPassword(a.fd, "Enter password", a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	confirm, err := GetPassword(a.fd, "Confirm password", a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, _, err := a.users.Register(ctx, services.RegisterInput{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		if common.KindOf(err) == common.KindInternal {
			return err
		}
		return errors.New(common.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Created user %s (%s)\n", user.ID, user.Email)
	return nil
}
