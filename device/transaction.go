package device

import (
	"bytes"
	"log/slog"

	"github.com/gogpu/paintdev/undo"
)

// transaction is the undo log of a device. It keeps the content every tile
// had before its first write since BeginTransaction.
type transaction struct {
	before map[tileKey][]byte // nil value: tile was not allocated
}

// record saves the state of the tile at key unless it was saved already.
// t is nil when the tile is not allocated yet.
func (tx *transaction) record(key tileKey, t *tile) {
	if _, ok := tx.before[key]; ok {
		return
	}
	if t == nil {
		tx.before[key] = nil
		return
	}
	tx.before[key] = bytes.Clone(t.data)
}

// BeginTransaction starts recording tile changes. Calling it while a
// transaction is open is logged and ignored.
func (d *PaintDevice) BeginTransaction() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tx != nil {
		slogger().Warn("device: transaction already open")
		return
	}
	d.tx = &transaction{before: make(map[tileKey][]byte)}
}

// HasTransaction reports whether a transaction is open.
func (d *PaintDevice) HasTransaction() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tx != nil
}

// EndTransaction closes the open transaction and returns a command that
// switches the touched tiles between their state before and after the
// transaction. The change is already in effect, so the command is normally
// wrapped with undo.NewSkipFirstRedo or pushed after its first Undo.
//
// Without an open transaction the call is logged and nil is returned.
func (d *PaintDevice) EndTransaction() undo.Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tx == nil {
		slogger().Warn("device: EndTransaction without open transaction")
		return nil
	}
	before := d.tx.before
	d.tx = nil

	after := make(map[tileKey][]byte, len(before))
	for key := range before {
		if t, ok := d.tiles[key]; ok {
			after[key] = bytes.Clone(t.data)
		} else {
			after[key] = nil
		}
	}
	slogger().Debug("device: transaction closed", slog.Int("tiles", len(before)))
	return &tileChangeCommand{dev: d, before: before, after: after}
}

// DiscardTransaction closes the open transaction without producing a
// command. Changes made during the transaction stay in effect.
func (d *PaintDevice) DiscardTransaction() {
	d.mu.Lock()
	d.tx = nil
	d.mu.Unlock()
}

// tileChangeCommand swaps the content of a set of tiles.
type tileChangeCommand struct {
	dev    *PaintDevice
	before map[tileKey][]byte
	after  map[tileKey][]byte
}

func (c *tileChangeCommand) Undo() { c.dev.applyTiles(c.before) }
func (c *tileChangeCommand) Redo() { c.dev.applyTiles(c.after) }

// applyTiles replaces tile content with copies of states. A nil state
// removes the tile.
func (d *PaintDevice) applyTiles(states map[tileKey][]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, data := range states {
		if d.tx != nil {
			d.tx.record(key, d.tiles[key])
		}
		if data == nil {
			delete(d.tiles, key)
			continue
		}
		d.tiles[key] = &tile{key: key, data: bytes.Clone(data)}
	}
}
