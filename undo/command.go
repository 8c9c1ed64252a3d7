// Package undo provides the command model used to make paint device
// changes reversible.
//
// A Command knows how to undo and redo one change. Commands are arranged in
// trees: a Group owns child commands, redoes them in insertion order and
// undoes them in reverse order. Trees are handed to a Stack, which executes
// Redo when a command is pushed.
package undo

import (
	"github.com/google/uuid"
)

// Command is a reversible change.
type Command interface {
	Undo()
	Redo()
}

// Group is a command composed of child commands.
//
// Every group carries a random ID that is used as the correlation key in
// log records about the change.
type Group struct {
	id       uuid.UUID
	text     string
	children []Command
}

// NewGroup creates an empty group. If parent is non-nil, the new group is
// appended to the parent's children.
func NewGroup(text string, parent *Group) *Group {
	g := &Group{id: uuid.New(), text: text}
	if parent != nil {
		parent.AddChild(g)
	}
	return g
}

// AddChild appends c to the group. A nil command is ignored.
func (g *Group) AddChild(c Command) {
	if c == nil {
		return
	}
	g.children = append(g.children, c)
}

// Redo redoes all children in insertion order.
func (g *Group) Redo() {
	for _, c := range g.children {
		c.Redo()
	}
}

// Undo undoes all children in reverse insertion order.
func (g *Group) Undo() {
	for i := len(g.children) - 1; i >= 0; i-- {
		g.children[i].Undo()
	}
}

// ID returns the group's correlation ID.
func (g *Group) ID() uuid.UUID { return g.id }

// Text returns the human readable description.
func (g *Group) Text() string { return g.text }

// ChildCount returns the number of direct children.
func (g *Group) ChildCount() int { return len(g.children) }

// Child returns the i-th child.
func (g *Group) Child(i int) Command { return g.children[i] }

// SkipFirstRedo wraps a command whose change is already in effect when the
// command is created. The first Redo call is ignored; every later call and
// every Undo is forwarded.
type SkipFirstRedo struct {
	cmd          Command
	initialState bool
}

// NewSkipFirstRedo wraps cmd. If parent is non-nil, the wrapper is appended
// to the parent's children.
func NewSkipFirstRedo(cmd Command, parent *Group) *SkipFirstRedo {
	s := &SkipFirstRedo{cmd: cmd, initialState: true}
	if parent != nil {
		parent.AddChild(s)
	}
	return s
}

// Redo forwards to the wrapped command except on the first call.
func (s *SkipFirstRedo) Redo() {
	if s.initialState {
		s.initialState = false
		return
	}
	s.cmd.Redo()
}

// Undo forwards to the wrapped command.
func (s *SkipFirstRedo) Undo() {
	s.initialState = false
	s.cmd.Undo()
}

// Unwrap returns the wrapped command.
func (s *SkipFirstRedo) Unwrap() Command { return s.cmd }

// FuncCommand adapts a pair of functions to the Command interface.
type FuncCommand struct {
	UndoFunc func()
	RedoFunc func()
}

// Undo calls UndoFunc if set.
func (f FuncCommand) Undo() {
	if f.UndoFunc != nil {
		f.UndoFunc()
	}
}

// Redo calls RedoFunc if set.
func (f FuncCommand) Redo() {
	if f.RedoFunc != nil {
		f.RedoFunc()
	}
}
