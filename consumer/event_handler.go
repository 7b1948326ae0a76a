package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"review-processor/service"
)

// EventType constants.
const (
	EventTypeSubmissionCreated = "SubmissionCreated"
	EventTypeRefreshRequested  = "RefreshRequested"
)

// SubmissionCreatedPayload represents the payload for SubmissionCreated events.
type SubmissionCreatedPayload struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	URL          string `json:"url"`
}

// RefreshRequestedPayload represents the payload for RefreshRequested events.
// The referenced submission carries its refresh_parent_id in the store.
type RefreshRequestedPayload struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
}

// SubmissionEventHandler dispatches stream events into the pipeline.
type SubmissionEventHandler struct {
	processor service.SubmissionProcessorService
	logger    *slog.Logger
}

// NewSubmissionEventHandler creates a new SubmissionEventHandler.
func NewSubmissionEventHandler(processor service.SubmissionProcessorService, logger *slog.Logger) *SubmissionEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionEventHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleEvent processes a single event based on its type.
func (h *SubmissionEventHandler) HandleEvent(ctx context.Context, event Event) error {
	h.logger.Info("handling event",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"message_id", event.MessageID,
	)

	switch event.EventType {
	case EventTypeSubmissionCreated:
		return h.handleSubmissionCreated(ctx, event)
	case EventTypeRefreshRequested:
		return h.handleRefreshRequested(ctx, event)
	default:
		h.logger.Debug("ignoring unknown event type", "event_type", event.EventType)
		return nil
	}
}

func (h *SubmissionEventHandler) handleSubmissionCreated(ctx context.Context, event Event) error {
	var payload SubmissionCreatedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal SubmissionCreated payload",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	h.logger.Info("processing SubmissionCreated event",
		"submission_id", payload.SubmissionID,
		"url", payload.URL,
	)

	if err := h.processor.Process(ctx, payload.SubmissionID); err != nil {
		h.logger.Error("failed to process submission",
			"submission_id", payload.SubmissionID,
			"error", err,
		)
		return err
	}

	return nil
}

func (h *SubmissionEventHandler) handleRefreshRequested(ctx context.Context, event Event) error {
	var payload RefreshRequestedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal RefreshRequested payload",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	h.logger.Info("processing RefreshRequested event",
		"submission_id", payload.SubmissionID,
	)

	if err := h.processor.Process(ctx, payload.SubmissionID); err != nil {
		h.logger.Error("failed to process refresh submission",
			"submission_id", payload.SubmissionID,
			"error", err,
		)
		return err
	}

	return nil
}
