package security

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an audited action.
type EventType string

const (
	EventProfileCreated     EventType = "profile_created"
	EventProfileUpdated     EventType = "profile_updated"
	EventProfileDeleted     EventType = "profile_deleted"
	EventProfileStatus      EventType = "profile_status_changed"
	EventProfileImage       EventType = "profile_image_uploaded"
	EventProfilesExported   EventType = "profiles_exported"
	EventAdminGranted       EventType = "admin_flag_changed"
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
)

// AuditEvent is one audit record.
type AuditEvent struct {
	Timestamp time.Time
	Event     EventType
	ActorID   string
	ActorMail string // masked before logging
	TargetID  string
	IP        string
	RequestID string
	Details   map[string]interface{}
}

// AuditLogger writes audit events as structured zap entries.
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewAuditLogger builds a production zap logger writing JSON to stdout.
func NewAuditLogger(serviceName, environment string) *AuditLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger = zap.NewNop()
	}
	return NewAuditLoggerWithZap(logger, serviceName, environment)
}

func NewAuditLoggerWithZap(logger *zap.Logger, serviceName, environment string) *AuditLogger {
	return &AuditLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NopAuditLogger discards everything.
func NopAuditLogger() *AuditLogger {
	return NewAuditLoggerWithZap(zap.NewNop(), "", "")
}

func (l *AuditLogger) Log(_ context.Context, event AuditEvent) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.InfoLevel
	switch event.Event {
	case EventLoginFailed, EventRateLimitTriggered:
		level = zapcore.WarnLevel
	case EventUnauthorizedAccess:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.ActorMail != "" {
		fields = append(fields, zap.String("actor_email", MaskEmail(event.ActorMail)))
	}
	if event.TargetID != "" {
		fields = append(fields, zap.String("target_id", event.TargetID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

// Sync flushes any buffered log entries
func (l *AuditLogger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zapLogger.Sync()
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
