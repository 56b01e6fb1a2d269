package ecs

// MaxFlushPasses bounds how many times a single Flush re-drains the queue.
const MaxFlushPasses = 64

// Commands buffers mutations queued while an entity is being updated. They
// run after that entity's update returns, before the next one starts.
type Commands struct {
	queue []func(*World)
	spare []func(*World)
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues fn to run at the next flush.
func (c *Commands) Defer(fn func(*World)) {
	c.queue = append(c.queue, fn)
}

// Len returns the number of queued actions.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush runs queued actions in FIFO order. Actions queued while flushing run
// in a later pass of the same flush, after everything that was already
// queued. After MaxFlushPasses passes the remainder is left for the next
// flush. Returns the number of actions executed.
func (c *Commands) Flush(w *World) int {
	executed := 0
	for pass := 0; len(c.queue) > 0; pass++ {
		if pass == MaxFlushPasses {
			w.logger.Warn("ecs: deferred queue still busy after max flush passes",
				"passes", MaxFlushPasses, "remaining", len(c.queue))
			break
		}

		batch := c.queue
		c.queue = c.spare[:0]
		for _, fn := range batch {
			fn(w)
			executed++
		}
		clear(batch)
		c.spare = batch[:0]
	}
	return executed
}

// With queues a mutation of the entity id. If id no longer resolves when the
// queue is flushed, the mutation is skipped with a warning.
func With[T any](w *World, id Id[T], fn func(*T)) {
	w.commands.Defer(func(w *World) {
		e := Get(w, id)
		if e == nil {
			w.logger.Warn("ecs: skipping deferred mutation of stale entity", "id", id.String())
			return
		}
		fn(e)
	})
}

// WithWorld is like With but also hands the mutation the world, so it can
// read or change other entities and the spatial state.
func WithWorld[T any](w *World, id Id[T], fn func(*T, *World)) {
	w.commands.Defer(func(w *World) {
		e := Get(w, id)
		if e == nil {
			w.logger.Warn("ecs: skipping deferred mutation of stale entity", "id", id.String())
			return
		}
		fn(e, w)
	})
}
