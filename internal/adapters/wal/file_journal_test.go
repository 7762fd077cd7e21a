package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

func TestFileJournalAppendIterateAndReplay(t *testing.T) {
	dir := t.TempDir()

	j, err := NewFileJournal(dir)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}

	c1 := &domain.Command{ID: "a", Command: domain.CommandJointPositions, JointNames: []string{"j1"}, JointPositions: []float64{0.5}}
	c2 := &domain.Command{ID: "b", Command: domain.CommandJointTCPTrajectory}

	id1, err := j.Append(c1)
	if err != nil || id1 == 0 {
		t.Fatalf("append command 1: %v id=%d", err, id1)
	}
	id2, err := j.Append(c2)
	if err != nil || id2 != id1+1 {
		t.Fatalf("append command 2: %v id=%d", err, id2)
	}

	var iterated []string
	if err := j.Iterate(1, func(id ports.JournalEntryID, cmd *domain.Command) error {
		iterated = append(iterated, cmd.ID)
		return nil
	}); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(iterated) != 2 || iterated[0] != "a" {
		t.Fatalf("unexpected iteration %v", iterated)
	}

	if err := j.Commit(id1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	// Reopen and ensure committed metadata was persisted.
	j2, err := NewFileJournal(dir)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}

	stats := j2.Stats()
	if stats.LatestAppended != id2 {
		t.Fatalf("expected latest appended %d, got %d", id2, stats.LatestAppended)
	}
	if stats.OldestUncommitted != id2 {
		t.Fatalf("expected oldest uncommitted %d, got %d", id2, stats.OldestUncommitted)
	}

	var pending []ports.JournalEntryID
	_ = j2.Iterate(stats.OldestUncommitted, func(id ports.JournalEntryID, cmd *domain.Command) error {
		pending = append(pending, id)
		return nil
	})
	if len(pending) != 1 || pending[0] != id2 {
		t.Fatalf("expected only %d pending, got %v", id2, pending)
	}

	size := stats.SizeBytes
	if err := j2.Close(); err != nil {
		t.Fatalf("close journal2: %v", err)
	}

	// A torn write at the tail is cut off on reopen.
	if err := appendGarbage(filepath.Join(dir, "commands.log")); err != nil {
		t.Fatalf("append garbage: %v", err)
	}
	j3, err := NewFileJournal(dir)
	if err != nil {
		t.Fatalf("reopen after garbage: %v", err)
	}
	defer j3.Close()
	if got := j3.Stats(); got.SizeBytes != size || got.LatestAppended != id2 {
		t.Fatalf("expected torn tail to be truncated, got %+v", got)
	}
	id3, err := j3.Append(c1)
	if err != nil || id3 != id2+1 {
		t.Fatalf("append after recovery: %v id=%d", err, id3)
	}
}

func appendGarbage(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte{0xFF, 0xAA})
	return err
}
