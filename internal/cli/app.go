package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/cryptox"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/dmitrijs2005/adminconsole/internal/models"
	"github.com/dmitrijs2005/adminconsole/internal/session"
	"github.com/dmitrijs2005/adminconsole/internal/storage"
	"github.com/dmitrijs2005/adminconsole/internal/view"
)

// Namespace is the storage namespace holding the CLI tokens.
const Namespace = "cli"

// API is the part of apiclient.Client the CLI uses.
type API interface {
	Login(ctx context.Context, email, password string) (models.TokenPair, error)
	DashboardStats(ctx context.Context, tokens apiclient.TokenStore) (models.DashboardStats, error)
	ListUsers(ctx context.Context, tokens apiclient.TokenStore, f models.UserFilter) (models.Page[models.User], error)
	GetUser(ctx context.Context, tokens apiclient.TokenStore, id string) (models.UserDetail, error)
	ListUserSubscriptions(ctx context.Context, tokens apiclient.TokenStore, id string, p models.PageRequest) (models.Page[models.Subscription], error)
	ListUserTransactions(ctx context.Context, tokens apiclient.TokenStore, id string, p models.PageRequest) (models.Page[models.Transaction], error)
}

// NewSession opens the CLI token store. The CLI has no cookie mirror.
func NewSession(repo storage.Repository, sealer *cryptox.Sealer) *session.Session {
	kv := storage.Scope(repo, Namespace)
	if sealer != nil {
		kv = storage.Sealed(kv, sealer)
	}
	return session.New(kv, nil)
}

type App struct {
	api     API
	sess    *session.Session
	format  view.Formatter
	scanner *bufio.Scanner
	out     io.Writer
	logger  logging.Logger
}

func NewApp(api API, sess *session.Session, format view.Formatter, in io.Reader, out io.Writer, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		api:     api,
		sess:    sess,
		format:  format,
		scanner: bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Admin console CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.scanner)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	access, err := a.sess.AccessToken(ctx)
	return err == nil && access != ""
}

func (a *App) status(ctx context.Context) string {
	access, err := a.sess.AccessToken(ctx)
	if err != nil || access == "" {
		return ""
	}
	if who := session.Identity(access); who != "" {
		return fmt.Sprintf("(%s)", who)
	}
	return "(signed in)"
}
