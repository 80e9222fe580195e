package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of change being recorded.
type AuditAction string

const (
	ActionCreate         AuditAction = "create"
	ActionUpdate         AuditAction = "update"
	ActionUpdateRejected AuditAction = "update_rejected"
	ActionDelete         AuditAction = "delete"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// DefaultAuditCapacity is used when NewAuditLog is given no limit.
const DefaultAuditCapacity = 10000

// AuditEntry is one recorded change to a stored table.
type AuditEntry struct {
	ID        string        `json:"id"`
	Action    AuditAction   `json:"action"`
	Severity  AuditSeverity `json:"severity"`
	TableID   string        `json:"tableId"`
	TableName string        `json:"tableName,omitempty"`
	Operation string        `json:"operation,omitempty"`
	IPAddress string        `json:"ipAddress,omitempty"`
	UserAgent string        `json:"userAgent,omitempty"`
	Rows      int           `json:"rows"`
	Columns   int           `json:"columns"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
// The caller address, User-Agent and operation come from the context.
type AuditLogParams struct {
	Action    AuditAction
	TableID   string
	TableName string
	Rows      int
	Columns   int
	Reason    string
}

// AuditFilter selects entries from the log. Zero fields match everything.
type AuditFilter struct {
	TableID string
	Action  AuditAction
	Since   time.Time
	// Limit keeps only the newest entries.
	Limit int
}

func (f AuditFilter) match(e AuditEntry) bool {
	if f.TableID != "" && e.TableID != f.TableID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if !f.Since.IsZero() && e.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// ActionSeverity returns the severity level for an action.
func ActionSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionDelete:
		return SeverityHigh
	case ActionUpdate, ActionCreate:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AuditLog keeps the most recent table changes in memory, oldest first.
type AuditLog struct {
	mu       sync.RWMutex
	entries  []AuditEntry
	capacity int
	now      func() time.Time
}

// NewAuditLog creates a log holding at most capacity entries.
func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditLog{capacity: capacity, now: time.Now}
}

// Record appends an entry, evicting the oldest one when the log is full.
func (l *AuditLog) Record(ctx context.Context, p AuditLogParams) AuditEntry {
	e := AuditEntry{
		ID:        uuid.NewString(),
		Action:    p.Action,
		Severity:  ActionSeverity(p.Action),
		TableID:   p.TableID,
		TableName: p.TableName,
		Operation: OperationFromContext(ctx),
		IPAddress: ClientIPFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
		Rows:      p.Rows,
		Columns:   p.Columns,
		Reason:    p.Reason,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e.CreatedAt = l.now()
	if len(l.entries) >= l.capacity {
		n := copy(l.entries, l.entries[len(l.entries)-l.capacity+1:])
		l.entries = l.entries[:n]
	}
	l.entries = append(l.entries, e)
	return e
}

// Query returns matching entries, newest first.
func (l *AuditLog) Query(f AuditFilter) []AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []AuditEntry{}
	for i := len(l.entries) - 1; i >= 0; i-- {
		if !f.match(l.entries[i]) {
			continue
		}
		out = append(out, l.entries[i])
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Len returns the number of entries held.
func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Prune drops entries created before cutoff and returns how many went.
func (l *AuditLog) Prune(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Entries are in creation order, so the expired ones form a prefix.
	n := 0
	for n < len(l.entries) && l.entries[n].CreatedAt.Before(cutoff) {
		n++
	}
	if n == 0 {
		return 0
	}
	l.entries = append(l.entries[:0], l.entries[n:]...)
	return n
}
