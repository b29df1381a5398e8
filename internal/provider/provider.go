package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/validation"
)

// Provider is a preference provider backed by an LWWMap. Every mutation is
// persisted as a full snapshot of the map, tombstones included, so a
// replica reopened from disk merges exactly like the one that wrote it.
type Provider struct {
	docs   *Documents
	doc    *crdt.LWWMap[string, merge.JSONValue]
	logger *slog.Logger
	name   string

	mu sync.Mutex // сериализует запись снимков
}

// Open loads the preferences document name, creating it when absent.
func Open(ctx context.Context, docs *Documents, name string, logger *slog.Logger) (*Provider, error) {
	doc, err := docs.LoadOrCreate(ctx, name, crdt.TypeLWWMap)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences %q: %w", name, err)
	}

	m, err := as[*crdt.LWWMap[string, merge.JSONValue]](doc)
	if err != nil {
		return nil, err
	}

	return &Provider{
		docs:   docs,
		doc:    m,
		logger: logger,
		name:   name,
	}, nil
}

// Name returns the document name.
func (p *Provider) Name() string { return p.name }

// Document returns the underlying map.
func (p *Provider) Document() *crdt.LWWMap[string, merge.JSONValue] { return p.doc }

// Get returns the value of key.
func (p *Provider) Get(key string) (merge.JSONValue, bool) {
	return p.doc.Get(key)
}

// Has reports whether key holds a value.
func (p *Provider) Has(key string) bool {
	return p.doc.Has(key)
}

// GetAll returns all present preferences.
func (p *Provider) GetAll() map[string]merge.JSONValue {
	all := make(map[string]merge.JSONValue, p.doc.Len())
	p.doc.ForEach(func(key string, value merge.JSONValue) {
		all[key] = value
	})
	return all
}

// Set stores value under key. value may be any JSON-encodable Go value or a
// merge.JSONValue.
func (p *Provider) Set(ctx context.Context, key string, value any) error {
	if err := validation.ValidateKey(key); err != nil {
		return err
	}

	jv, err := merge.NewJSONValue(value)
	if err != nil {
		return fmt.Errorf("failed to encode preference %q: %w", key, err)
	}

	p.doc.Set(key, jv)
	p.logger.Debug("Preference set", "document", p.name, "key", key)
	return p.persist(ctx)
}

// Delete removes key. Deleting an absent key still records a tombstone.
func (p *Provider) Delete(ctx context.Context, key string) error {
	if err := validation.ValidateKey(key); err != nil {
		return err
	}

	p.doc.Delete(key)
	p.logger.Debug("Preference deleted", "document", p.name, "key", key)
	return p.persist(ctx)
}

// Clear removes every preference.
func (p *Provider) Clear(ctx context.Context) error {
	p.doc.Clear()
	p.logger.Debug("Preferences cleared", "document", p.name)
	return p.persist(ctx)
}

func (p *Provider) persist(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.docs.Save(ctx, p.name, p.doc)
}
