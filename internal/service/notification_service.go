package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/config"
	"github.com/spec-kit/asset-inventory/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAssetAssigned, n.handleAssetAssigned)
	n.dispatcher.Subscribe(events.EventAssetReturned, n.handleAssetReturned)
	n.dispatcher.Subscribe(events.EventAssetRetired, n.handleAssetRetired)
	n.dispatcher.Subscribe(events.EventMaintenanceLogCreated, n.handleMaintenanceLogCreated)
	n.dispatcher.Subscribe(events.EventMaintenanceLogStatusChanged, n.handleMaintenanceLogStatusChanged)
}

func (n *NotificationService) handleAssetAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("AssetAssigned", zap.String("asset_id", event.AssetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssetReturned(ctx context.Context, event events.Event) error {
	n.logger.Info("AssetReturned", zap.String("asset_id", event.AssetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssetRetired(ctx context.Context, event events.Event) error {
	n.logger.Info("AssetRetired", zap.String("asset_id", event.AssetID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMaintenanceLogCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("MaintenanceLogCreated", zap.String("asset_id", event.AssetID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMaintenanceLogStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("MaintenanceLogStatusChanged", zap.String("asset_id", event.AssetID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("asset_id", event.AssetID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("asset_id", event.AssetID),
		zap.String("event_type", string(event.Type)))
}
