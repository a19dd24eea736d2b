// Command devcli is a terminal client for the devconnector API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-cz/devslog"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/client"
	"github.com/siahsang/devconnector/internal/client/view"
	"github.com/spf13/cobra"
)

var errNotSignedIn = xerrors.Message("not signed in, run devcli login first")

type session struct {
	out        io.Writer
	logger     *slog.Logger
	api        *client.API
	store      *client.Store
	dispatcher *client.Dispatcher
}

type options struct {
	server    string
	tokenFile string
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := &session{out: os.Stdout}
	err := newRootCommand(sess).ExecuteContext(ctx)

	// Alerts raised by the last command, failures included.
	if sess.store != nil {
		view.RenderAlerts(os.Stderr, sess.store.Alerts())
	}
	if err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || len(apiErr.Errors) == 0 {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCommand(sess *session) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "devcli",
		Short:         "Terminal client for the developer network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return sess.open(opts)
		},
	}

	defaultServer := os.Getenv("DEVCONNECTOR_API")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}
	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "API base URL")
	root.PersistentFlags().StringVar(&opts.tokenFile, "token-file", "", "where the auth token is kept (default: user config dir)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every dispatched action")

	root.AddCommand(
		newRegisterCommand(sess),
		newLoginCommand(sess),
		newLogoutCommand(sess),
		newDashboardCommand(sess),
		newProfileCommand(sess),
		newExperienceCommand(sess),
		newEducationCommand(sess),
		newDeleteAccountCommand(sess),
		newPostCommand(sess),
	)
	return root
}

// open reads the stored token once and wires the store to the API client.
func (s *session) open(opts *options) error {
	s.logger = configLogger(opts.verbose)

	path := opts.tokenFile
	if path == "" {
		var err error
		if path, err = client.DefaultTokenPath(); err != nil {
			return err
		}
	}
	storage := client.NewFileTokenStorage(path)

	token, err := storage.Load()
	if err != nil {
		return err
	}

	s.api = client.NewAPI(opts.server)
	s.api.SetToken(token)

	s.store = client.NewStore(client.InitialState(token), nil)
	s.store.Subscribe(client.PersistToken(storage, s.logger))
	s.store.Subscribe(client.BindToken(s.api))
	s.store.Subscribe(client.LogActions(s.logger))

	s.dispatcher = client.NewDispatcher(s.api, s.store, s.logger)
	return nil
}

func (s *session) requireToken() error {
	if s.store.Auth().Token == "" {
		return errNotSignedIn
	}
	return nil
}

func configLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := devslog.NewHandler(
		os.Stderr, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				Level: level,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}
