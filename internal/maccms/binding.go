package maccms

import (
	"context"
	"sync"

	"github.com/ymzhao/vodbridge/internal/adapter"
	"github.com/ymzhao/vodbridge/internal/endpoint"
	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/logger"
	"github.com/ymzhao/vodbridge/internal/models"
)

// Binding keeps exactly one live Client bound to the store's current
// endpoint. Refresh rebuilds the client only when the current URL actually
// changed; calls issued mid-rebind complete against the client they
// snapshotted. Every video response is routed through the adapter before
// it reaches the caller.
type Binding struct {
	mu         sync.RWMutex
	store      *endpoint.Store
	adapt      adapter.Adapter
	logger     *logger.Logger
	clientCfg  ClientConfig
	newClient  func(ClientConfig) *Client
	client     *Client
	currentURL string
}

// BindingConfig holds binding construction options
type BindingConfig struct {
	Store   *endpoint.Store
	Adapter adapter.Adapter // defaults to adapter.Display
	Client  ClientConfig    // BaseURL is ignored; it comes from the store
}

// NewBinding creates an unbound binding; call Refresh to bind it to the
// store's current endpoint.
func NewBinding(cfg BindingConfig) *Binding {
	adapt := cfg.Adapter
	if adapt == nil {
		adapt = adapter.Display{}
	}
	return &Binding{
		store:     cfg.Store,
		adapt:     adapt,
		logger:    logger.AppLogger(),
		clientCfg: cfg.Client,
		newClient: NewClient,
	}
}

// Refresh reconciles the binding with the store's current endpoint:
// unbound -> bound when one appears, rebound when the URL changed,
// unbound when the last endpoint is gone, no-op otherwise.
func (b *Binding) Refresh() error {
	current, err := b.store.Current()
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if current == nil {
		if b.client != nil {
			b.logger.Info("unbinding API client, no endpoint configured")
		}
		b.client = nil
		b.currentURL = ""
		return nil
	}

	if current.URL == b.currentURL {
		return nil
	}

	b.logger.WithFields(map[string]interface{}{
		"from": b.currentURL,
		"to":   current.URL,
	}).Info("rebinding API client")

	cfg := b.clientCfg
	cfg.BaseURL = current.URL
	b.client = b.newClient(cfg)
	b.currentURL = current.URL
	return nil
}

// Bound reports whether a client is currently bound
func (b *Binding) Bound() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.client != nil
}

// CurrentURL returns the URL the binding is bound to, or "" when unbound
func (b *Binding) CurrentURL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.currentURL
}

// snapshot returns the bound client; in-flight calls keep using the
// client they snapshotted even if a rebind happens underneath them.
func (b *Binding) snapshot() (*Client, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.client == nil {
		return nil, apperrors.EndpointNotConfigured()
	}
	return b.client, nil
}

// VideoList fetches a video page through the bound client and adapter
func (b *Binding) VideoList(ctx context.Context, p ListParams) (*models.VideoEnvelope, error) {
	client, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	envelope, err := client.VideoList(ctx, p)
	if err != nil {
		return nil, err
	}
	return b.adapt.Adapt(envelope), nil
}

// VideoDetail fetches detail records through the bound client and adapter
func (b *Binding) VideoDetail(ctx context.Context, ids string) (*models.VideoEnvelope, error) {
	client, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	envelope, err := client.VideoDetail(ctx, ids)
	if err != nil {
		return nil, err
	}
	return b.adapt.Adapt(envelope), nil
}

// Categories fetches the category tree through the bound client. The
// adapter step is the identity for categories.
func (b *Binding) Categories(ctx context.Context) (*models.CategoryEnvelope, error) {
	client, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	return client.Categories(ctx)
}
