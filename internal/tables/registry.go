package tables

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kumarlokesh/anu-converter/internal/converter"
	"github.com/kumarlokesh/anu-converter/internal/mapping"
	"github.com/kumarlokesh/anu-converter/internal/storage"
)

// Table is a ready-to-use conversion table.
type Table struct {
	Selection Selection
	Engine    *converter.Engine
	Mapping   mapping.Mapping
	Report    mapping.Report
	// Asset is the name the table was loaded from, empty if none was found.
	Asset string
	// Degraded is set when the asset was missing, malformed or had no
	// usable rules; conversion then returns its input unchanged.
	Degraded bool
}

// Convert applies the table to text.
func (t *Table) Convert(text string) string {
	return t.Engine.Convert(text)
}

// Registry loads tables from a store and memoizes one per selection. It is
// safe for concurrent use.
type Registry struct {
	store  storage.Store
	logger zerolog.Logger

	mu     sync.Mutex
	tables map[Selection]*entry
}

type entry struct {
	once  sync.Once
	table *Table
	err   error
}

// NewRegistry creates a registry reading assets from store.
func NewRegistry(store storage.Store, logger zerolog.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger.With().Str("component", "tables").Logger(),
		tables: make(map[Selection]*entry),
	}
}

// Table returns the table for sel, loading and building it on first use.
// Missing or malformed assets yield a degraded identity table; only storage
// failures are returned as errors, and those are not cached.
func (r *Registry) Table(ctx context.Context, sel Selection) (*Table, error) {
	r.mu.Lock()
	e, ok := r.tables[sel]
	if !ok {
		e = &entry{}
		r.tables[sel] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.table, e.err = r.load(ctx, sel)
	})

	if e.err != nil {
		r.mu.Lock()
		if r.tables[sel] == e {
			delete(r.tables, sel)
		}
		r.mu.Unlock()
		return nil, e.err
	}
	return e.table, nil
}

// Invalidate drops the cached table for sel; the next call rebuilds it.
func (r *Registry) Invalidate(sel Selection) {
	r.mu.Lock()
	delete(r.tables, sel)
	r.mu.Unlock()

	r.logger.Debug().Stringer("selection", sel).Msg("Table invalidated")
}

// Preload builds all four tables.
func (r *Registry) Preload(ctx context.Context) ([]*Table, error) {
	var loaded []*Table
	for _, sel := range All() {
		t, err := r.Table(ctx, sel)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, t)
	}
	return loaded, nil
}

func (r *Registry) load(ctx context.Context, sel Selection) (*Table, error) {
	logger := r.logger.With().Stringer("selection", sel).Logger()

	asset, err := r.store.GetAsset(ctx, sel.AssetName())
	if errors.Is(err, storage.ErrAssetNotFound) {
		logger.Warn().Str("asset", sel.AssetName()).Msg("Mapping asset not found, conversion will pass text through unchanged")
		return r.build(sel, "", nil, mapping.Report{Malformed: true}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", sel.AssetName(), err)
	}

	m, report := mapping.Parse(asset.Name, asset.Content)
	t := r.build(sel, asset.Name, m, report)

	event := logger.Info()
	if t.Degraded {
		event = logger.Warn()
	}
	event.
		Str("asset", asset.Name).
		Int("rules", report.Accepted).
		Int("reserved", report.Reserved).
		Int("rejected", report.Rejected).
		Bool("malformed", report.Malformed).
		Int("max_key_len", t.Engine.MaxKeyLen()).
		Msg("Loaded mapping table")

	return t, nil
}

func (r *Registry) build(sel Selection, asset string, m mapping.Mapping, report mapping.Report) *Table {
	if m == nil {
		m = mapping.Mapping{}
	}
	return &Table{
		Selection: sel,
		Engine:    converter.New(m),
		Mapping:   m,
		Report:    report,
		Asset:     asset,
		Degraded:  report.Malformed || len(m) == 0,
	}
}
