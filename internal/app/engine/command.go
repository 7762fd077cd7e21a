package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// HandleCommand applies an external override. Accepted commands disable the
// trajectory watchers for the rest of the session so file changes cannot
// overwrite the commanded state.
func (e *Engine) HandleCommand(cmd *domain.Command) error {
	if !knownCommand(cmd) {
		e.deps.Obs.RecordRejected(cmd, domain.ErrUnknownCommand)
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, commandName(cmd))
	}

	var id ports.JournalEntryID
	if e.deps.Journal != nil {
		var err error
		if id, err = e.deps.Journal.Append(cmd); err != nil {
			e.deps.Obs.LogCritical("journal_append_failed", err, ports.Field{Key: "command", Value: cmd.Command})
			return fmt.Errorf("journal command: %w", err)
		}
	}

	err := e.dispatch(cmd)

	if e.deps.Journal != nil {
		if cerr := e.deps.Journal.Commit(id); cerr != nil {
			e.deps.Obs.LogError("journal_commit_failed", cerr)
		}
	}
	if err != nil {
		e.deps.Obs.RecordRejected(cmd, err)
		return err
	}
	e.deps.Obs.IncCounter("jointsync_commands_total", 1)
	return nil
}

func (e *Engine) dispatch(cmd *domain.Command) error {
	e.watcher.Disable(e.opts.Resources.Trajectory)
	e.watcher.Disable(e.opts.Resources.TCPTrajectory)

	switch cmd.Command {
	case domain.CommandJointPositions:
		return e.SetPose(cmd.JointNames, cmd.JointPositions)
	case domain.CommandJointTrajectory:
		return e.SetTrajectory(cmd.JointNames, cmd.JointTrajectory)
	default:
		e.SetPath(cmd.TCPTrajectory)
		return nil
	}
}

// replay restores the override state recorded in the journal. Joint commands
// and path commands govern separate state, so the latest of each is
// re-applied in journal order.
func (e *Engine) replay() error {
	if e.deps.Journal == nil {
		return nil
	}
	type record struct {
		id  ports.JournalEntryID
		cmd *domain.Command
	}
	var (
		joint, path *record
		lastID      ports.JournalEntryID
	)
	err := e.deps.Journal.Iterate(0, func(id ports.JournalEntryID, cmd *domain.Command) error {
		switch {
		case !knownCommand(cmd):
			return nil
		case cmd.Command == domain.CommandJointTCPTrajectory:
			path = &record{id: id, cmd: cmd}
		default:
			joint = &record{id: id, cmd: cmd}
		}
		lastID = id
		return nil
	})
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	pending := make([]*record, 0, 2)
	for _, r := range []*record{joint, path} {
		if r != nil {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].id < pending[j].id })

	var errs []error
	for _, r := range pending {
		e.deps.Obs.LogInfo("journal_replay", ports.Field{Key: "id", Value: uint64(r.id)}, ports.Field{Key: "command", Value: r.cmd.Command})
		if err := e.dispatch(r.cmd); err != nil {
			errs = append(errs, fmt.Errorf("replay command %d: %w", r.id, err))
		}
	}
	if err := e.deps.Journal.Commit(lastID); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func knownCommand(cmd *domain.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Command {
	case domain.CommandJointPositions, domain.CommandJointTrajectory, domain.CommandJointTCPTrajectory:
		return true
	}
	return false
}

func commandName(cmd *domain.Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.Command
}
