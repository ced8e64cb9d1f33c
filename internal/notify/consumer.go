package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/bizlink/leadgen-backend/internal/leads"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mailer interface {
	Send(ctx context.Context, email Email) error
}

type businessRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Consumer receives lead.created events and emails the owning business user.
type Consumer struct {
	subscription *pubsub.Subscriber
	mailer       mailer
	businesses   businessRepository
	users        userRepository
	logg         *logger.Logger
}

// ConsumerParams collects the consumer dependencies.
type ConsumerParams struct {
	Subscription *pubsub.Subscriber
	Mailer       mailer
	Businesses   businessRepository
	Users        userRepository
	Logger       *logger.Logger
}

// NewConsumer builds a lead notification consumer.
func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscription == nil {
		return nil, fmt.Errorf("lead subscription required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if params.Businesses == nil {
		return nil, fmt.Errorf("businesses repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: params.Subscription,
		mailer:       params.Mailer,
		businesses:   params.Businesses,
		users:        params.Users,
		logg:         params.Logger,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != leads.EventLeadCreated {
		c.logg.Info(logCtx, "skipping non-lead event")
		return processResult{ack: true}
	}

	var event leads.LeadCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode lead event", err)
		return processResult{ack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"lead_id":     event.LeadID.String(),
		"business_id": event.BusinessID.String(),
	})

	if err := c.notifyOwner(ctx, event, logCtx); err != nil {
		c.logg.Error(logCtx, "lead notification failed", err)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func (c *Consumer) notifyOwner(ctx context.Context, event leads.LeadCreatedEvent, logCtx context.Context) error {
	business, err := c.businesses.FindByID(ctx, event.BusinessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Leads may reference a business that was deleted or never backfilled.
		// Nothing to notify, so the event is dropped.
		c.logg.Warn(logCtx, "lead references missing business")
		return nil
	}
	if err != nil {
		return err
	}

	owner, err := c.users.FindByID(ctx, business.OwnerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.logg.Warn(logCtx, "business owner not found")
		return nil
	}
	if err != nil {
		return err
	}

	email := Email{
		ToEmail: owner.Email,
		ToName:  owner.Name,
		Subject: fmt.Sprintf("New lead for %s", business.Name),
		Text: fmt.Sprintf("%s (%s) sent you a new lead:\n\n%s\n",
			event.Name, event.Email, event.Message),
	}
	if err := c.mailer.Send(ctx, email); err != nil {
		return err
	}
	c.logg.Info(logCtx, "lead notification sent")
	return nil
}
