package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/auth"
	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/config"
	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/filestore"
	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/history"
	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/sqlitestore"
	"github.com/laundrydesk/laundrydesk/internal/application"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

const flushTimeout = 10 * time.Second

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	dataDir    string
	user       string
	password   string
}

// app is the composition root. It is built lazily by commands that touch
// the order book so that version, init and hash-password work without
// any storage.
type app struct {
	flags globalFlags

	cfg       domain.Config
	loc       *time.Location
	log       *logrus.Logger
	kv        domain.KVStore
	closeKV   func() error
	orders    *application.OrderStore
	customers *application.CustomerBook
	dashboard *application.DashboardService
	auth      domain.Authenticator
}

// loadConfig reads configuration and applies flag overrides.
func (a *app) loadConfig() (domain.Config, error) {
	loader := config.New()
	var (
		cfg domain.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = loader.LoadFile(a.flags.configPath)
	} else {
		cfg, err = loader.Load(".")
	}
	if err != nil {
		return domain.Config{}, err
	}
	if a.flags.dataDir != "" {
		dir, err := filepath.Abs(a.flags.dataDir)
		if err != nil {
			return domain.Config{}, fmt.Errorf("resolving data dir: %w", err)
		}
		cfg.DataDir = dir
		cfg.SQLitePath = filepath.Join(dir, filepath.Base(cfg.SQLitePath))
	}
	return cfg, nil
}

// open builds every service and loads the persisted collections.
// Persistence warnings are printed to errOut and never abort the command.
func (a *app) open(ctx context.Context, errOut io.Writer) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	a.cfg, a.loc = cfg, loc
	a.log = newLogger(cfg, errOut)

	kv, closeKV, err := openStore(cfg)
	if err != nil {
		return err
	}
	a.kv, a.closeKV = kv, closeKV

	warn := domain.WarningFunc(func(err error) {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	})
	opts := []application.Option{
		application.WithLogger(a.log),
		application.WithWarnings(warn),
		application.WithRetry(cfg.WriteRetry),
		application.WithLocation(loc),
	}
	a.orders = application.NewOrderStore(kv, opts...)
	a.customers = application.NewCustomerBook(kv, opts...)
	a.dashboard = application.NewDashboardService(a.orders, history.New(kv).WithRetention(a.cfg.SnapshotRetention), opts...)
	a.auth = auth.NewBcryptAuthenticator(cfg.Auth, nil)

	a.orders.Load(ctx)
	a.customers.Load(ctx)
	return nil
}

// close waits for pending writes and releases the store.
func (a *app) close() error {
	if a.orders == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	var firstErr error
	if err := a.orders.Flush(ctx); err != nil {
		firstErr = fmt.Errorf("orders were not saved: %w", err)
	}
	if err := a.customers.Flush(ctx); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("customers were not saved: %w", err)
	}
	if a.closeKV != nil {
		if err := a.closeKV(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// session logs in with --user/--password or LAUNDRYDESK_USER and
// LAUNDRYDESK_PASSWORD. Without a configured credential the local operator
// session is returned.
func (a *app) session() (domain.Session, error) {
	user, pass := a.flags.user, a.flags.password
	if user == "" {
		user = os.Getenv(config.EnvPrefix + "_USER")
	}
	if pass == "" {
		pass = os.Getenv(config.EnvPrefix + "_PASSWORD")
	}
	if a.cfg.Auth.Enabled() && user == "" && pass == "" {
		return domain.Anonymous(), domain.ErrUnauthenticated
	}
	s, err := a.auth.Login(user, pass)
	if err != nil {
		a.log.WithField("user", user).Warn("login failed")
		return s, err
	}
	return s, nil
}

// run opens the app, runs fn and always flushes, so that every command
// leaves storage consistent with what it printed.
func (a *app) run(cmd *cobra.Command, fn func() error) (err error) {
	if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn()
}

// mutate is run for commands that change data: it also requires a session.
func (a *app) mutate(cmd *cobra.Command, fn func(s domain.Session) error) error {
	return a.run(cmd, func() error {
		s, err := a.session()
		if err != nil {
			return err
		}
		return fn(s)
	})
}

func openStore(cfg domain.Config) (domain.KVStore, func() error, error) {
	switch cfg.Backend {
	case domain.BackendSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, s.Close, nil
	default:
		return filestore.New(cfg.DataDir), func() error { return nil }, nil
	}
}

func newLogger(cfg domain.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logrus.WarnLevel
	}
	log.SetLevel(level)
	return log
}
