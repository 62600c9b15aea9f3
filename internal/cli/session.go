package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/internal/store"
	"github.com/mesh-intelligence/storefront/internal/storefront"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// session is an opened store and the page built over it.
type session struct {
	store types.Store
	page  *storefront.Page
}

// openSession opens the configured store and loads the page state. One-shot
// commands run on a clock that never advances, so no pulse or carousel
// timer ever fires.
func (a *app) openSession(deps storefront.Deps) (*session, error) {
	catalog, err := loadCatalog(a.cfg.Catalog)
	if err != nil {
		return nil, userError("%w", err)
	}

	st, err := a.openStore()
	if err != nil {
		return nil, err
	}

	deps.Store = st
	deps.Logger = a.logger
	deps.Catalog = catalog
	if deps.Scheduler == nil {
		deps.Scheduler = schedule.New(schedule.NewManualClock(), schedule.Inline{})
	}
	page, err := storefront.Open(deps)
	if err != nil {
		_ = st.Close()
		return nil, userError("%w", err)
	}
	return &session{store: st, page: page}, nil
}

func (a *app) openStore() (types.Store, error) {
	st, err := store.Open(a.cfg.Config)
	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrRedisAddrEmpty):
		return nil, userError("config.yaml: %w", err)
	default:
		return nil, sysError("open store: %w", err)
	}
}

func (s *session) Close() error {
	s.page.Close()
	if err := s.store.Close(); err != nil {
		return sysError("close store: %w", err)
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
