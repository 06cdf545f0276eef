package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/pflag"

	"tidyup/internal/backend/mock"
	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/mockserver"
)

const shutdownTimeout = 5 * time.Second

func init() {
	Register(&MockServeCmd{})
}

// MockServeCmd serves the mock backend over HTTP until interrupted.
type MockServeCmd struct {
	addr      string
	statePath string
}

func (c *MockServeCmd) Name() string              { return "mockserve" }
func (c *MockServeCmd) Aliases() []string         { return nil }
func (c *MockServeCmd) Synopsis() string          { return "Run the mock API server" }
func (c *MockServeCmd) Usage() string             { return "tidyup mockserve [--addr <host:port>] [--state <file>]" }
func (c *MockServeCmd) Access() guard.Requirement { return guard.Public }

func (c *MockServeCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "localhost:8080", "listen address")
	fs.StringVar(&c.statePath, "state", "", "persist mock data to this file")
}

func (c *MockServeCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return usage(env, "unexpected argument: %s", args[0])
	}

	var opts []mock.StoreOption
	if c.statePath != "" {
		opts = append(opts, mock.WithStatePath(c.statePath))
	}
	store, err := mock.NewStore(opts...)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	listener, err := net.Listen("tcp", c.addr)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: could not listen on %s: %v\n", c.addr, err)
		return exitcode.BackendError
	}

	server := &http.Server{
		Handler:           mockserver.NewRouter(store, env.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	info(env, "mock API listening on http://%s (password for all accounts: %s)", listener.Addr(), mock.DevPassword)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return exitcode.BackendError
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		env.Logger.Debug("mock server shutdown", "error", err)
	}
	return exitcode.Success
}
