package order

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// HistoryEntry records one status an order entered, who moved it there and when.
// The history of an order is append-only.
type HistoryEntry struct {
	status    Status
	note      string
	actorRole kernel.Role
	actorID   kernel.UUID
	at        time.Time
}

// RestoreHistoryEntry rebuilds an entry from storage.
func RestoreHistoryEntry(status Status, note string, actorRole kernel.Role, actorID kernel.UUID, at time.Time) HistoryEntry {
	return HistoryEntry{
		status:    status,
		note:      note,
		actorRole: actorRole,
		actorID:   actorID,
		at:        at,
	}
}

func newHistoryEntry(status Status, note string, actor kernel.Actor, at time.Time) HistoryEntry {
	return RestoreHistoryEntry(status, note, actor.Role(), actor.ID(), at)
}

func (h HistoryEntry) Status() Status {
	return h.status
}

func (h HistoryEntry) Note() string {
	return h.note
}

func (h HistoryEntry) ActorRole() kernel.Role {
	return h.actorRole
}

func (h HistoryEntry) ActorID() kernel.UUID {
	return h.actorID
}

func (h HistoryEntry) At() time.Time {
	return h.at
}
