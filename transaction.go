package paintdev

import (
	"log/slog"

	"github.com/gogpu/paintdev/region"
	"github.com/gogpu/paintdev/undo"
)

// gridChangeCommand switches the read grid of an OverlayWrapper between its
// state before and after a transaction. Its children are the undo commands
// of the overlay devices.
type gridChangeCommand struct {
	w        *OverlayWrapper
	oldGrid  region.GridSnapshot
	newGrid  region.GridSnapshot
	children []undo.Command
}

func (c *gridChangeCommand) addChild(cmd undo.Command) {
	if cmd != nil {
		c.children = append(c.children, cmd)
	}
}

func (c *gridChangeCommand) Undo() {
	for i := len(c.children) - 1; i >= 0; i-- {
		c.children[i].Undo()
	}
	c.w.grid.Restore(c.oldGrid)
	c.w.previousGrid = c.oldGrid
	c.w.hasPreviousGrid = true
}

func (c *gridChangeCommand) Redo() {
	for _, child := range c.children {
		child.Redo()
	}
	c.w.grid.Restore(c.newGrid)
	c.w.previousGrid = c.newGrid
	c.w.hasPreviousGrid = true
}

// BeginTransaction starts recording changes to the overlays and the read
// grid. The returned command of EndTransaction is attached to parent when
// parent is non-nil.
//
// Starting a transaction while one is open is a contract violation: it is
// logged, the open transaction is discarded and a new one starts.
func (w *OverlayWrapper) BeginTransaction(parent *undo.Group) {
	if !assertRecoverable(w.root == nil, "overlay transaction already open") {
		w.discardTransaction()
	}

	if !w.hasPreviousGrid {
		w.previousGrid = w.grid.Snapshot()
		w.hasPreviousGrid = true
	}

	w.root = undo.NewGroup("overlay transaction", parent)
	w.gridChange = &gridChangeCommand{w: w, oldGrid: w.previousGrid}
	undo.NewSkipFirstRedo(w.gridChange, w.root)

	for _, ov := range w.overlays {
		ov.BeginTransaction()
	}
	Logger().Debug("paintdev: transaction begun", slog.String("id", w.root.ID().String()))
}

// EndTransaction closes the transaction and returns its command. The
// changes are already in effect, so the command's first Redo does nothing;
// it can be pushed onto an undo.Stack directly.
//
// Without an open transaction the call is logged, any stray overlay
// transactions are discarded and nil is returned.
func (w *OverlayWrapper) EndTransaction() *undo.Group {
	if !assertRecoverable(w.root != nil, "EndTransaction without open overlay transaction") {
		for _, ov := range w.overlays {
			ov.DiscardTransaction()
		}
		return nil
	}

	w.gridChange.newGrid = w.grid.Snapshot()
	w.previousGrid = w.gridChange.newGrid
	for _, ov := range w.overlays {
		w.gridChange.addChild(ov.EndTransaction())
	}

	root := w.root
	w.root = nil
	w.gridChange = nil
	Logger().Debug("paintdev: transaction ended", slog.String("id", root.ID().String()))
	return root
}

// discardTransaction drops the open transaction without producing a
// command.
func (w *OverlayWrapper) discardTransaction() {
	for _, ov := range w.overlays {
		ov.DiscardTransaction()
	}
	w.root = nil
	w.gridChange = nil
}
