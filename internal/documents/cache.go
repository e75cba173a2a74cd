package documents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/redis"
)

// Cache is the relaxed read-side store for display queries. The creation path
// never reads it; duplicate search always hits the database fresh.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logg   *logger.Logger
}

// NewCache wraps the redis client for document view caching.
func NewCache(client *redis.Client, ttl time.Duration, logg *logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logg: logg}
}

// GetDocument returns a cached view or nil on miss.
func (c *Cache) GetDocument(ctx context.Context, docType enums.DocumentType, id string) *DocumentView {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, c.client.DocumentKey(docType, id))
	if err != nil {
		if !redis.IsNil(err) && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "document cache read failed")
		}
		return nil
	}
	var view DocumentView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil
	}
	return &view
}

// SetDocument stores a view under the configured TTL. Failures are logged and
// swallowed; the cache never breaks a read.
func (c *Cache) SetDocument(ctx context.Context, view *DocumentView) {
	if c == nil || c.client == nil || view == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.client.DocumentKey(view.Type, view.ID.String()), string(raw), c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "document cache write failed")
	}
}

// GetRelated returns a cached related-documents view or nil on miss.
func (c *Cache) GetRelated(ctx context.Context, docType enums.DocumentType, id string) *RelatedDocuments {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, c.client.RelatedKey(docType, id))
	if err != nil {
		return nil
	}
	var related RelatedDocuments
	if err := json.Unmarshal([]byte(raw), &related); err != nil {
		return nil
	}
	return &related
}

// SetRelated stores a related-documents view.
func (c *Cache) SetRelated(ctx context.Context, docType enums.DocumentType, id string, related *RelatedDocuments) {
	if c == nil || c.client == nil || related == nil {
		return
	}
	raw, err := json.Marshal(related)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.client.RelatedKey(docType, id), string(raw), c.ttl)
}

// InvalidateType drops every cached view of the given type plus related views.
func (c *Cache) InvalidateType(ctx context.Context, docType enums.DocumentType) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.DelByPrefix(ctx, c.client.DocumentTypePrefix(docType)); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "document cache invalidation failed")
	}
}

// InvalidateDocument drops one cached document and its related view.
func (c *Cache) InvalidateDocument(ctx context.Context, docType enums.DocumentType, id string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx,
		c.client.DocumentKey(docType, id),
		c.client.RelatedKey(docType, id),
	)
}

// InvalidateClient drops cached per-client listings.
func (c *Cache) InvalidateClient(ctx context.Context, clientID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.DelByPrefix(ctx, c.client.ClientDocumentsPrefix(clientID))
}
