package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/k4doshh/bau-tribo/internal/jsonstore"
	"github.com/k4doshh/bau-tribo/internal/sqlitestore"
	"github.com/k4doshh/bau-tribo/pkg/types"
)

// openStore opens the configured store backend.
func openStore(cfg types.Config, log *logrus.Entry) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendJSON:
		return jsonstore.Open(cfg.DataDir, log)
	case types.BackendSQLite:
		return sqlitestore.Open(cfg.DataDir, log)
	}
	// Validate accepts only the backends above.
	return nil, fmt.Errorf("open store: %w", types.ErrBackendUnknown)
}
