package catalogController

import (
	"context"
	"time"
	"xrayserver/internal/events"
	"xrayserver/internal/lifecycle"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"

	. "xrayserver/internal/models"

	"github.com/google/uuid"
)

type CatalogController struct {
	partRepo repositories.PartRepository
	eventBus *events.EventBus
	log      logger.Logger
}

func New(partRepo repositories.PartRepository, eventBus *events.EventBus) *CatalogController {
	return &CatalogController{
		partRepo: partRepo,
		eventBus: eventBus,
		log:      logger.New("CatalogController"),
	}
}

// ListParts is open to every authenticated role; doctors pick from it when
// drafting a request.
func (c *CatalogController) ListParts(ctx context.Context) ([]BodyPartOption, error) {
	return c.partRepo.GetAll(ctx)
}

func (c *CatalogController) AddPart(ctx context.Context, actor User, part BodyPartOption) (BodyPartOption, error) {
	log := c.log.Function("AddPart")

	if !lifecycle.CanPerform(actor.Role, lifecycle.ActionManageParts) {
		return BodyPartOption{}, NewGuardViolation("", "AddPart", "actor is not an admin")
	}

	added, err := c.partRepo.Add(ctx, part)
	if err != nil {
		return BodyPartOption{}, err
	}

	log.Info("part added", "id", added.ID, "category", added.Category, "projection", added.Projection)
	c.publishChange(actor, "add", added.ID)
	return added, nil
}

func (c *CatalogController) RemovePart(ctx context.Context, actor User, id string) error {
	log := c.log.Function("RemovePart")

	if !lifecycle.CanPerform(actor.Role, lifecycle.ActionManageParts) {
		return NewGuardViolation("", "RemovePart", "actor is not an admin")
	}

	if err := c.partRepo.Remove(ctx, id); err != nil {
		return err
	}

	log.Info("part removed", "id", id)
	c.publishChange(actor, "remove", id)
	return nil
}

func (c *CatalogController) publishChange(actor User, action, id string) {
	if c.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "collection",
		Channel:   CollectionParts,
		Action:    action,
		UserID:    actor.Username,
		Data:      map[string]any{"id": id},
		Timestamp: time.Now(),
	}

	if err := c.eventBus.Publish(events.BroadcastChannel, event); err != nil {
		c.log.Function("publishChange").Er("failed to publish event", err, "event", event)
	}
}
