package events

import "time"

// SourceBackend is the event source of everything this service publishes
const SourceBackend = "swift-backend.api"

const (
	// TypeSeedCompleted is published after a seed run replaced all collections
	TypeSeedCompleted = "seed.completed"
)

// DomainEvent is something that happened which other systems may react to
type DomainEvent interface {
	EventType() string
	AggregateID() string
	Timestamp() time.Time
}

// SeedCompleted records a finished seed run and how much it wrote
type SeedCompleted struct {
	RunID      string    `json:"runId"`
	Users      int       `json:"users"`
	Posts      int       `json:"posts"`
	Comments   int       `json:"comments"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewSeedCompleted creates a SeedCompleted event stamped with the current time
func NewSeedCompleted(runID string, users, posts, comments int) SeedCompleted {
	return SeedCompleted{
		RunID:      runID,
		Users:      users,
		Posts:      posts,
		Comments:   comments,
		OccurredAt: time.Now().UTC(),
	}
}

func (e SeedCompleted) EventType() string    { return TypeSeedCompleted }
func (e SeedCompleted) AggregateID() string  { return e.RunID }
func (e SeedCompleted) Timestamp() time.Time { return e.OccurredAt }
