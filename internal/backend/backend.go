// Package backend selects the service implementation from configuration.
package backend

import (
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"tidyup/internal/backend/httpapi"
	"tidyup/internal/backend/mock"
	"tidyup/internal/config"
	"tidyup/internal/service"
)

// New returns the mock backend when cfg.Mock is set, otherwise the HTTP
// client for cfg.APIURL. tokens supplies the bearer token for HTTP calls.
func New(cfg *config.Config, tokens oauth2.TokenSource, logger *slog.Logger) (service.Service, error) {
	if cfg.Mock {
		store, err := mock.NewStore(mock.WithStatePath(cfg.MockStatePath()))
		if err != nil {
			return nil, fmt.Errorf("open mock state: %w", err)
		}
		logger.Debug("using mock backend", "state", cfg.MockStatePath(), "latency", cfg.MockLatency)
		return mock.New(store, mock.WithLatency(cfg.MockLatency)), nil
	}
	logger.Debug("using http backend", "url", cfg.APIURL)
	return httpapi.New(cfg.APIURL, cfg.HTTPTimeout, tokens, logger), nil
}
