package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/safence/sentinelguard/internal/bus"
	"github.com/safence/sentinelguard/internal/lib/alerts"
	"github.com/safence/sentinelguard/internal/metrics"
)

const alertCapacity = 200

// AlertService stores raised alerts and enriches them with AI summaries in
// the background. Enhancement is best effort; an alert is useful without it.
type AlertService struct {
	enhancer alerts.Enhancer
	events   *bus.Bus
	logs     *LogService
	logger   *slog.Logger

	mu       sync.RWMutex
	alerts   map[string]alerts.Alert
	enhanced map[string]alerts.EnhancedAlert
	order    []string
}

// NewAlertService creates an alert service. Enhancer, bus and logs are all
// optional.
func NewAlertService(enhancer alerts.Enhancer, events *bus.Bus, logs *LogService, logger *slog.Logger) *AlertService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertService{
		enhancer: enhancer,
		events:   events,
		logs:     logs,
		logger:   logger,
		alerts:   make(map[string]alerts.Alert),
		enhanced: make(map[string]alerts.EnhancedAlert),
	}
}

// Raise records a new alert and kicks off background enhancement.
func (s *AlertService) Raise(ctx context.Context, alert alerts.Alert) alerts.Alert {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.RaisedAt.IsZero() {
		alert.RaisedAt = time.Now()
	}
	if !alert.Severity.Valid() {
		alert.Severity = alerts.SeverityInfo
	}

	s.mu.Lock()
	if _, exists := s.alerts[alert.ID]; !exists {
		s.order = append(s.order, alert.ID)
	}
	s.alerts[alert.ID] = alert
	s.evictLocked()
	s.mu.Unlock()

	metrics.AlertsRaised.WithLabelValues(string(alert.Severity)).Inc()
	if s.logs != nil {
		s.logs.Append(logLevelFor(alert.Severity), "alerts", fmt.Sprintf("%s: %s", alert.DeviceName, alert.Message))
	}
	if s.events != nil {
		s.events.Publish(bus.EventAlert, alert)
	}

	if s.enhancer != nil {
		go s.enhance(ctx, alert)
	}
	return alert
}

func (s *AlertService) enhance(ctx context.Context, alert alerts.Alert) {
	enhanceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	enhanced, err := s.enhancer.EnhanceAlert(enhanceCtx, alert)
	if err != nil {
		metrics.AlertsEnhanced.WithLabelValues("error").Inc()
		s.logger.Warn("alert enhancement failed", "alert", alert.ID, "error", err)
		return
	}
	metrics.AlertsEnhanced.WithLabelValues("ok").Inc()

	s.mu.Lock()
	// The alert may have been evicted while enhancement ran.
	if _, exists := s.alerts[alert.ID]; exists {
		s.enhanced[alert.ID] = enhanced
	}
	s.mu.Unlock()

	if s.events != nil {
		s.events.Publish(bus.EventAlert, enhanced)
	}
}

// Acknowledge marks an alert as acknowledged.
func (s *AlertService) Acknowledge(id string) (alerts.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[id]
	if !ok {
		return alerts.Alert{}, fmt.Errorf("alert not found: %s", id)
	}
	alert.Acknowledged = true
	s.alerts[id] = alert
	return alert, nil
}

// List returns alerts newest first. When unacknowledgedOnly is set,
// acknowledged alerts are skipped.
func (s *AlertService) List(unacknowledgedOnly bool) []alerts.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]alerts.Alert, 0, len(s.order))
	for _, id := range s.order {
		alert := s.alerts[id]
		if unacknowledgedOnly && alert.Acknowledged {
			continue
		}
		out = append(out, alert)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RaisedAt.After(out[j].RaisedAt)
	})
	return out
}

// Enhanced returns the AI enhancement for an alert, if one has been
// produced.
func (s *AlertService) Enhanced(id string) (alerts.EnhancedAlert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enhanced, ok := s.enhanced[id]
	return enhanced, ok
}

func (s *AlertService) evictLocked() {
	for len(s.order) > alertCapacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.alerts, oldest)
		delete(s.enhanced, oldest)
	}
}

func logLevelFor(severity alerts.Severity) string {
	switch severity {
	case alerts.SeverityCritical:
		return "error"
	case alerts.SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}
