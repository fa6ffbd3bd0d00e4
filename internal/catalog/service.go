package catalog

import "context"

// Catalog exposes the provider/service read model to the scheduling engine.
type Catalog interface {
	GetProvider(ctx context.Context, id string) (*Provider, error)
	GetService(ctx context.Context, id string) (*Service, error)
	GetProviderService(ctx context.Context, providerID, serviceID string) (*Service, error)
}

type catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) Catalog {
	return &catalog{repo: repo}
}

func (c *catalog) GetProvider(ctx context.Context, id string) (*Provider, error) {
	return c.repo.GetProvider(ctx, id)
}

func (c *catalog) GetService(ctx context.Context, id string) (*Service, error) {
	return c.repo.GetService(ctx, id)
}

func (c *catalog) GetProviderService(ctx context.Context, providerID, serviceID string) (*Service, error) {
	return c.repo.GetProviderService(ctx, providerID, serviceID)
}
