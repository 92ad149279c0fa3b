package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bally3399/chord001-monograms/internal/domain"
	pkgkafka "github.com/bally3399/chord001-monograms/pkg/kafka"
	"github.com/bally3399/chord001-monograms/pkg/logger"
)

// Kafka topics for storefront domain events.
var (
	TopicDesign   = pkgkafka.Topic("storefront", "designs")
	TopicFavorite = pkgkafka.Topic("storefront", "favorites")
	TopicCart     = pkgkafka.Topic("storefront", "cart")
)

// Event types.
const (
	DesignCreated   = "design.created"
	DesignUpdated   = "design.updated"
	DesignDeleted   = "design.deleted"
	FavoriteAdded   = "favorite.added"
	FavoriteRemoved = "favorite.removed"
	CartUpdated     = "cart.updated"
)

// SourceStorefrontAPI identifies events emitted by this server.
const SourceStorefrontAPI = "storefront-api"

// DesignData is the payload for design.* events.
type DesignData struct {
	DesignID   string `json:"design_id"`
	Title      string `json:"title,omitempty"`
	Price      *int64 `json:"price,omitempty"`
	IsFeatured bool   `json:"is_featured"`
}

// FavoriteData is the payload for favorite.* events.
type FavoriteData struct {
	ViewerID string `json:"viewer_id"`
	DesignID string `json:"design_id"`
}

// CartUpdatedData is the payload for cart.updated events. Action is one of
// "added", "quantity_changed", "removed" or "moved_from_favorites".
type CartUpdatedData struct {
	ViewerID string `json:"viewer_id"`
	DesignID string `json:"design_id,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
	Action   string `json:"action"`
	Quantity int    `json:"quantity,omitempty"`
}

// Publisher is the subset of *pkgkafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events. A Producer with a nil
// Publisher drops events, which is how the server runs without Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishDesign publishes a design.* event.
func (p *Producer) PublishDesign(ctx context.Context, eventType string, d *domain.Design) error {
	return p.publish(ctx, TopicDesign, eventType, d.ID, "design", DesignData{
		DesignID:   d.ID,
		Title:      d.Title,
		Price:      d.Price,
		IsFeatured: d.IsFeatured,
	})
}

// PublishFavorite publishes a favorite.added or favorite.removed event.
func (p *Producer) PublishFavorite(ctx context.Context, eventType, viewerID, designID string) error {
	return p.publish(ctx, TopicFavorite, eventType, viewerID, "favorite", FavoriteData{
		ViewerID: viewerID,
		DesignID: designID,
	})
}

// PublishCartUpdated publishes a cart.updated event keyed by viewer.
func (p *Producer) PublishCartUpdated(ctx context.Context, data CartUpdatedData) error {
	return p.publish(ctx, TopicCart, CartUpdated, data.ViewerID, "cart", data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) error {
	if p == nil || p.kafka == nil {
		return nil
	}

	evt, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceStorefrontAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if viewer := logger.ViewerIDFromContext(ctx); viewer != "" {
		evt.WithMetadata("viewer_id", viewer)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("event_type", eventType),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}
