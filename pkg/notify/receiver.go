// Package notify receives the callbacks a VTN sends for subscriptions
// created with oadr3.Client.CreateSubscription.
package notify

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
)

// Notification is the body the VTN posts to a subscription callback URL.
type Notification struct {
	ObjectType model.ObjectType   `json:"objectType"`
	Operation  model.Operation    `json:"operation"`
	Object     json.RawMessage    `json:"object"`
	Targets    []model.TargetType `json:"targets,omitempty"`
}

// Decode unmarshals the notification object into T, e.g. model.Event.
func Decode[T any](n Notification) (T, error) {
	var out T
	if len(n.Object) == 0 {
		return out, fmt.Errorf("notification for %s has no object", n.ObjectType)
	}
	if err := json.Unmarshal(n.Object, &out); err != nil {
		return out, fmt.Errorf("decode %s object: %w", n.ObjectType, err)
	}
	return out, nil
}

// Handler processes one notification. A returned error makes the receiver
// answer 500 so the VTN may redeliver.
type Handler func(ctx context.Context, n Notification) error

// Receiver is a fiber handler for subscription callbacks.
type Receiver struct {
	logger      *zap.Logger
	bearerToken string
	handler     Handler
}

// NewReceiver creates a Receiver. When bearerToken is non-empty, callbacks must
// present it as "Authorization: Bearer <token>", matching the bearerToken set
// on the subscription's object operation.
func NewReceiver(logger *zap.Logger, bearerToken string, h Handler) *Receiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Receiver{
		logger:      logger,
		bearerToken: bearerToken,
		handler:     h,
	}
}

// HandleNotification processes a callback.
// POST {callbackUrl}
func (r *Receiver) HandleNotification(c *fiber.Ctx) error {
	if r.bearerToken != "" && !r.authorized(c.Get(fiber.HeaderAuthorization)) {
		r.logger.Warn("oadr3.notify.unauthorized", zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid bearer token",
		})
	}

	var n Notification
	if err := json.Unmarshal(c.Body(), &n); err != nil {
		r.logger.Warn("oadr3.notify.parse_error", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid payload",
		})
	}
	if n.ObjectType == "" || n.Operation == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "objectType and operation are required",
		})
	}

	r.logger.Info("oadr3.notify.received",
		zap.String("object_type", string(n.ObjectType)),
		zap.String("operation", string(n.Operation)))

	if err := r.handler(c.UserContext(), n); err != nil {
		r.logger.Error("oadr3.notify.handler_failed",
			zap.String("object_type", string(n.ObjectType)),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "notification not processed",
		})
	}
	return c.SendStatus(fiber.StatusOK)
}

func (r *Receiver) authorized(header string) bool {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return false
	}
	got := strings.TrimSpace(header[len(prefix):])
	return subtle.ConstantTimeCompare([]byte(got), []byte(r.bearerToken)) == 1
}

// RegisterRoutes mounts the callback at path plus /health and /metrics.
func RegisterRoutes(app *fiber.App, path string, r *Receiver) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post(path, r.HandleNotification)
}
