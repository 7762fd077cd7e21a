package ports

import "github.com/ghalamif/JointSync/internal/domain"

type JournalEntryID uint64

// Journal is an append-only log of accepted override commands.
type Journal interface {
	Append(cmd *domain.Command) (JournalEntryID, error)
	Iterate(from JournalEntryID, fn func(id JournalEntryID, cmd *domain.Command) error) error
	Commit(upto JournalEntryID) error
	Stats() JournalStats
}

type JournalStats struct {
	OldestUncommitted JournalEntryID
	LatestAppended    JournalEntryID
	SizeBytes         int64
}
