package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/saylorsolutions/contents/contents"
)

type event struct {
	Seq     int
	At      time.Duration
	Phase   contents.Phase
	Content string
	Detail  string
}

var _ contents.Module = (*tracer)(nil)

// tracer records every lifecycle hook in the tree.
type tracer struct {
	start  time.Time
	mux    sync.Mutex
	events []event
}

func newTracer() *tracer {
	return &tracer{start: time.Now()}
}

func (t *tracer) Events() []event {
	t.mux.Lock()
	defer t.mux.Unlock()
	return append([]event(nil), t.events...)
}

func label(c contents.Content) string {
	if c == nil {
		return ""
	}
	if p, ok := contents.ParamAs[*sceneParam](c); ok {
		return p.String()
	}
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}

func (t *tracer) record(phase contents.Phase, c contents.Content, detail string) error {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.events = append(t.events, event{
		Seq:     len(t.events) + 1,
		At:      time.Since(t.start),
		Phase:   phase,
		Content: label(c),
		Detail:  detail,
	})
	return nil
}

func (t *tracer) Phases() contents.Phase { return contents.PhaseAll }

func (t *tracer) OnPreBoot(_ context.Context, c contents.Content) error {
	return t.record(contents.PhasePreBoot, c, "")
}

func (t *tracer) OnBoot(_ context.Context, c contents.Content) error {
	return t.record(contents.PhaseBoot, c, "")
}

func (t *tracer) OnPreShutdown(_ context.Context, c contents.Content) error {
	return t.record(contents.PhasePreShutdown, c, "")
}

func (t *tracer) OnShutdown(_ context.Context, c contents.Content) error {
	return t.record(contents.PhaseShutdown, c, "")
}

func (t *tracer) OnPreRun(_ context.Context, c contents.Content) error {
	return t.record(contents.PhasePreRun, c, "")
}

func (t *tracer) OnRun(_ context.Context, c contents.Content) error {
	return t.record(contents.PhaseRun, c, "")
}

func (t *tracer) OnPreSuspend(_ context.Context, c contents.Content) error {
	return t.record(contents.PhasePreSuspend, c, "")
}

func (t *tracer) OnSuspend(_ context.Context, c contents.Content) error {
	return t.record(contents.PhaseSuspend, c, "")
}

func (t *tracer) OnPreEnable(_ context.Context, c contents.Content) error {
	return t.record(contents.PhasePreEnable, c, "")
}

func (t *tracer) OnEnable(_ context.Context, c contents.Content) error {
	return t.record(contents.PhaseEnable, c, "")
}

func (t *tracer) OnPreDisable(_ context.Context, c contents.Content) error {
	return t.record(contents.PhasePreDisable, c, "")
}

func (t *tracer) OnDisable(_ context.Context, c contents.Content) error {
	return t.record(contents.PhaseDisable, c, "")
}

func (t *tracer) OnPreSwitch(_ context.Context, prev, next contents.Content) error {
	return t.record(contents.PhasePreSwitch, prev, "to "+label(next))
}

func (t *tracer) OnSwitch(_ context.Context, prev, next contents.Content) error {
	return t.record(contents.PhaseSwitch, next, "from "+label(prev))
}

func (t *tracer) OnEndSwitch(_ context.Context, prev, next contents.Content) error {
	return t.record(contents.PhaseEndSwitch, next, "from "+label(prev))
}
