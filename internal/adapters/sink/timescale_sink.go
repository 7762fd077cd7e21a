package sink

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// TimescaleSink records playback events in a Timescale/Postgres table.
type TimescaleSink struct {
	db        *sql.DB
	tableName string
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	return &TimescaleSink{db: db, tableName: table}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

func (t *TimescaleSink) WriteBatch(events []*domain.PlaybackEvent) error {
	if len(events) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (id, source, clip_name, duration, track_count, applied_at) VALUES ")

	args := make([]any, 0, len(events)*6)
	for i, e := range events {
		if i > 0 {
			b.WriteString(",")
		}
		n := len(args)
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)", n+1, n+2, n+3, n+4, n+5, n+6))
		args = append(args,
			e.ID,
			e.Source,
			e.ClipName,
			e.Duration,
			e.TrackCount,
			e.AppliedAt,
		)
	}

	// replays of the same event id are idempotent
	b.WriteString(" ON CONFLICT (id) DO NOTHING")

	_, err := t.db.Exec(b.String(), args...)
	return err
}

var _ ports.HistorySink = (*TimescaleSink)(nil)
