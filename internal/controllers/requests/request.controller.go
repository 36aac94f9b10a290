package requestsController

import (
	"context"
	"sort"
	"time"
	"xrayserver/internal/events"
	"xrayserver/internal/lifecycle"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"

	. "xrayserver/internal/models"

	"github.com/google/uuid"
)

// RequestController orchestrates lifecycle transitions: load the record,
// apply the state machine, persist, then notify listeners. The machine
// re-validates every guard, so nothing here trusts the transport layer.
type RequestController struct {
	requestRepo repositories.RequestRepository
	machine     *lifecycle.Machine
	eventBus    *events.EventBus
	log         logger.Logger
}

func New(
	requestRepo repositories.RequestRepository,
	machine *lifecycle.Machine,
	eventBus *events.EventBus,
) *RequestController {
	return &RequestController{
		requestRepo: requestRepo,
		machine:     machine,
		eventBus:    eventBus,
		log:         logger.New("RequestController"),
	}
}

func (c *RequestController) Submit(ctx context.Context, actor User, draft lifecycle.Draft) (XRayRequest, error) {
	log := c.log.Function("Submit")

	request, err := c.machine.Submit(actor, draft)
	if err != nil {
		return XRayRequest{}, err
	}

	if err := c.requestRepo.Save(ctx, request); err != nil {
		return XRayRequest{}, log.Err("failed to save request", err, "id", request.ID)
	}

	log.Info("request submitted", "id", request.ID, "doctor", actor.Username)
	c.publishChange(actor, "submit", request.ID)
	return request, nil
}

func (c *RequestController) Edit(ctx context.Context, actor User, id string, draft lifecycle.Draft) (XRayRequest, error) {
	log := c.log.Function("Edit")

	existing, err := c.load(ctx, id)
	if err != nil {
		return XRayRequest{}, err
	}

	updated, err := c.machine.Edit(actor, *existing, draft)
	if err != nil {
		return XRayRequest{}, err
	}

	if err := c.requestRepo.Save(ctx, updated); err != nil {
		return XRayRequest{}, log.Err("failed to save request", err, "id", id)
	}

	log.Info("request edited", "id", id, "doctor", actor.Username)
	c.publishChange(actor, "edit", id)
	return updated, nil
}

func (c *RequestController) Accept(ctx context.Context, actor User, id string) (XRayRequest, error) {
	return c.transition(ctx, actor, id, "accept", func(request XRayRequest) (XRayRequest, error) {
		return c.machine.Accept(actor, request)
	})
}

func (c *RequestController) Reject(ctx context.Context, actor User, id, reason string) (XRayRequest, error) {
	return c.transition(ctx, actor, id, "reject", func(request XRayRequest) (XRayRequest, error) {
		return c.machine.Reject(actor, request, reason)
	})
}

func (c *RequestController) MarkArrived(ctx context.Context, actor User, id string) (XRayRequest, error) {
	return c.transition(ctx, actor, id, "arrive", func(request XRayRequest) (XRayRequest, error) {
		return c.machine.MarkArrived(actor, request)
	})
}

func (c *RequestController) StartExam(ctx context.Context, actor User, id string) (XRayRequest, error) {
	return c.transition(ctx, actor, id, "start", func(request XRayRequest) (XRayRequest, error) {
		return c.machine.StartExam(actor, request)
	})
}

func (c *RequestController) Finish(ctx context.Context, actor User, id string, doses map[string]string) (XRayRequest, error) {
	return c.transition(ctx, actor, id, "finish", func(request XRayRequest) (XRayRequest, error) {
		return c.machine.Finish(actor, request, doses)
	})
}

// ListForDoctor returns the actor's own requests, newest first.
func (c *RequestController) ListForDoctor(ctx context.Context, actor User) ([]XRayRequest, error) {
	requests, err := c.requestRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	own := make([]XRayRequest, 0)
	for _, request := range requests {
		if request.DoctorID == actor.Username {
			own = append(own, request)
		}
	}
	sortNewestFirst(own)
	return own, nil
}

// WorkQueue returns what a radiographer acts on: everything PENDING plus
// ACCEPTED requests whose exam has not ended.
func (c *RequestController) WorkQueue(ctx context.Context) ([]XRayRequest, error) {
	requests, err := c.requestRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	queue := make([]XRayRequest, 0)
	for _, request := range requests {
		if request.Status == StatusPending ||
			(request.Status == StatusAccepted && request.ExamEndTimestamp == nil) {
			queue = append(queue, request)
		}
	}
	sortNewestFirst(queue)
	return queue, nil
}

func (c *RequestController) ListAll(ctx context.Context) ([]XRayRequest, error) {
	requests, err := c.requestRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(requests)
	return requests, nil
}

func (c *RequestController) load(ctx context.Context, id string) (*XRayRequest, error) {
	request, err := c.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	return request, nil
}

func (c *RequestController) transition(
	ctx context.Context,
	actor User,
	id, action string,
	apply func(XRayRequest) (XRayRequest, error),
) (XRayRequest, error) {
	log := c.log.Function("transition")

	existing, err := c.load(ctx, id)
	if err != nil {
		return XRayRequest{}, err
	}

	updated, err := apply(*existing)
	if err != nil {
		return XRayRequest{}, err
	}

	if err := c.requestRepo.Save(ctx, updated); err != nil {
		return XRayRequest{}, log.Err("failed to save request", err, "id", id, "action", action)
	}

	log.Info("request transitioned", "id", id, "action", action, "status", updated.Status, "actor", actor.Username)
	c.publishChange(actor, action, id)
	return updated, nil
}

func (c *RequestController) publishChange(actor User, action, id string) {
	if c.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "collection",
		Channel:   CollectionRequests,
		Action:    action,
		UserID:    actor.Username,
		Data:      map[string]any{"id": id},
		Timestamp: time.Now(),
	}

	if err := c.eventBus.Publish(events.BroadcastChannel, event); err != nil {
		c.log.Function("publishChange").Er("failed to publish event", err, "event", event)
	}
}

func sortNewestFirst(requests []XRayRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt > requests[j].CreatedAt
	})
}
