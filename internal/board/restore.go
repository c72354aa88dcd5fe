package board

import (
	"image"

	"SignaturePad/internal/paint"
	"SignaturePad/internal/state"
)

// restore is a request to repaint the surface from a snapshot. Only the
// latest request may paint; older ones are dropped when they finish.
type restore struct {
	gen  uint64
	snap state.Snapshot
}

// restoreLocked schedules an asynchronous repaint from snap, superseding
// any restore still in flight.
func (b *Board) restoreLocked(snap state.Snapshot) {
	r := &restore{gen: b.clock.Tick(), snap: snap}
	b.pending = r
	b.inflight.Add(1)
	go b.complete(r)
}

func (b *Board) complete(r *restore) {
	defer b.inflight.Done()
	img, err := paint.Decode(r.snap.Data)

	b.mu.Lock()
	if b.pending != r || !b.clock.IsLatest(r.gen) {
		b.mu.Unlock()
		b.log.Debug("stale restore discarded", "generation", r.gen, "snapshot", r.snap.ID)
		return
	}
	b.pending = nil
	if err != nil {
		b.mu.Unlock()
		b.log.Error("restore failed", "snapshot", r.snap.ID, "err", err)
		return
	}
	b.paintLocked(img)
	b.mu.Unlock()
	b.notify()
}

// settleLocked applies the pending restore, if any, before a synchronous
// operation touches the pixels. The goroutine serving it will find itself
// stale and drop its result.
func (b *Board) settleLocked() {
	r := b.pending
	if r == nil {
		return
	}
	b.pending = nil
	img, err := paint.Decode(r.snap.Data)
	if err != nil {
		b.log.Error("restore failed", "snapshot", r.snap.ID, "err", err)
		return
	}
	b.paintLocked(img)
	b.log.Debug("restore settled", "generation", r.gen, "snapshot", r.snap.ID)
}

// paintLocked shows a decoded snapshot. A snapshot larger than the surface
// was taken before a shrink; it is folded into the extent so growing
// reveals it.
func (b *Board) paintLocked(img image.Image) {
	bg := b.background()
	b.surface.Restore(img, bg)
	if !img.Bounds().In(b.surface.Bounds()) {
		b.extent = paint.Overlay(b.extent, img, bg)
	}
}

// Wait blocks until every restore and dictation started so far has
// finished or been discarded.
func (b *Board) Wait() {
	b.inflight.Wait()
}
