package alerts

import (
	"context"
	"time"
)

// Severity is the alert severity level.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Alert is a raised security alert tied to a monitored device.
type Alert struct {
	ID           string    `json:"id"`
	DeviceID     string    `json:"device_id"`
	DeviceName   string    `json:"device_name"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	Location     string    `json:"location"`
	Acknowledged bool      `json:"acknowledged"`
	RaisedAt     time.Time `json:"raised_at"`
}

// StructuredSummary is the AI-processed description of an alert.
type StructuredSummary struct {
	Details           string            `json:"details"`
	ThreatLevel       string            `json:"threat_level"` // enum: low, elevated, high, critical
	RecommendedAction string            `json:"recommended_action"`
	AdditionalInfo    map[string]string `json:"additional_info,omitempty"`
	CondensedSummary  string            `json:"condensed_summary,omitempty"`
}

// EnhancedAlert is an alert with its AI enhancement attached.
type EnhancedAlert struct {
	ID                string            `json:"id"`
	OriginalMessage   string            `json:"original_message"`
	StructuredSummary StructuredSummary `json:"structured_summary"`
	CondensedSummary  string            `json:"condensed_summary"`
	ProcessedAt       time.Time         `json:"processed_at"`
}

// Enhancer produces operator-friendly descriptions of raw alerts.
type Enhancer interface {
	EnhanceAlert(ctx context.Context, alert Alert) (EnhancedAlert, error)
	HealthCheck(ctx context.Context) error
}
