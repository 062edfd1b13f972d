package models

import "time"

// ModerationEventType names the action behind a ModerationEvent
type ModerationEventType string

const (
	EventWarn    ModerationEventType = "warn"
	EventBan     ModerationEventType = "ban"
	EventTimeout ModerationEventType = "timeout"
	EventIsolate ModerationEventType = "isolate"
	EventScan    ModerationEventType = "scan"
)

// ModerationEvent is published on the event feed after a moderation action
type ModerationEvent struct {
	Type        ModerationEventType `json:"type"`
	GuildID     string              `json:"guildId,omitempty"`
	TargetID    string              `json:"targetId,omitempty"`
	ModeratorID string              `json:"moderatorId,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Count       int                 `json:"count,omitempty"`
	Detail      string              `json:"detail,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}
