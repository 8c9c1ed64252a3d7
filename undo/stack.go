package undo

import "log/slog"

// Stack is a linear undo history.
//
// Push executes the command's Redo and records it. Commands created after
// their change already happened must therefore skip their first redo (see
// SkipFirstRedo).
//
// Thread safety: Stack is NOT thread-safe.
type Stack struct {
	cmds  []Command
	index int // number of commands currently applied
	limit int
}

// NewStack creates a stack keeping at most limit commands.
// A non-positive limit keeps an unbounded history.
func NewStack(limit int) *Stack {
	return &Stack{limit: limit}
}

// Push executes cmd and appends it to the history, dropping any commands
// that were undone before. A nil command is ignored.
func (s *Stack) Push(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Redo()

	s.cmds = append(s.cmds[:s.index], cmd)
	if s.limit > 0 && len(s.cmds) > s.limit {
		drop := len(s.cmds) - s.limit
		clear(s.cmds[:drop])
		s.cmds = s.cmds[drop:]
	}
	s.index = len(s.cmds)
	logPush(cmd, s.index)
}

// Undo reverts the most recently applied command.
// It reports false when there is nothing to undo.
func (s *Stack) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.index--
	s.cmds[s.index].Undo()
	return true
}

// Redo reapplies the most recently undone command.
// It reports false when there is nothing to redo.
func (s *Stack) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.cmds[s.index].Redo()
	s.index++
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would do anything.
func (s *Stack) CanRedo() bool { return s.index < len(s.cmds) }

// Len returns the number of commands in the history.
func (s *Stack) Len() int { return len(s.cmds) }

// Clear drops the whole history without undoing anything.
func (s *Stack) Clear() {
	clear(s.cmds)
	s.cmds = s.cmds[:0]
	s.index = 0
}

func logPush(cmd Command, depth int) {
	if g, ok := cmd.(*Group); ok {
		slogger().Debug("undo: push", slog.String("id", g.ID().String()),
			slog.String("text", g.Text()), slog.Int("depth", depth))
		return
	}
	slogger().Debug("undo: push", slog.Int("depth", depth))
}
