package ports

import "github.com/ghalamif/JointSync/internal/domain"

// HistorySink persists playback events.
type HistorySink interface {
	WriteBatch(events []*domain.PlaybackEvent) error
	Name() string
}
