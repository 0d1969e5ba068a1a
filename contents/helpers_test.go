package contents

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saylorsolutions/contents/patterns/caller"
	"github.com/saylorsolutions/contents/slogx"
	"github.com/stretchr/testify/require"
)

const testWait = 2 * time.Second

type counter struct {
	mux    sync.Mutex
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.counts[key]++
}

func (c *counter) get(key string) int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.counts[key]
}

// trace is a shared, ordered log of lifecycle events.
type trace struct {
	mux     sync.Mutex
	entries []string
}

func (t *trace) add(format string, args ...any) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.entries = append(t.entries, fmt.Sprintf(format, args...))
}

func (t *trace) list() []string {
	t.mux.Lock()
	defer t.mux.Unlock()
	return append([]string(nil), t.entries...)
}

func (t *trace) reset() {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.entries = nil
}

type mainEvent int

const (
	eventSwitch mainEvent = iota
	eventAppend
	eventPing
)

type mainParam struct {
	ContentParam[mainContent, *mainContent]
	bootWait time.Duration
	counter  *counter
	active   *atomic.Int32
	maxSeen  *atomic.Int32
}

type mainContent struct {
	Base
}

func (m *mainContent) Bindings() []caller.Binding {
	return []caller.Binding{
		caller.OnParam(eventSwitch, (*mainContent).onSwitch),
		caller.OnParam(eventAppend, (*mainContent).onAppend),
		caller.On(eventPing, (*mainContent).onPing),
	}
}

func (m *mainContent) param() *mainParam {
	p, _ := ParamAs[*mainParam](m)
	return p
}

func (m *mainContent) OnBoot(ctx context.Context) error {
	p := m.param()
	if p.active != nil {
		n := p.active.Add(1)
		defer p.active.Add(-1)
		for {
			seen := p.maxSeen.Load()
			if n <= seen || p.maxSeen.CompareAndSwap(seen, n) {
				break
			}
		}
	}
	if p.bootWait > 0 {
		select {
		case <-time.After(p.bootWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.counter.add("Boot")
	return nil
}

func (m *mainContent) OnEnable(context.Context) error {
	m.param().counter.add("Enable")
	return nil
}

func (m *mainContent) OnRun(context.Context) error {
	m.param().counter.add("Run")
	return nil
}

func (m *mainContent) onSwitch(c *counter) {
	if _, err := m.SwitchParam(context.Background(), &mainParam{counter: c}); err != nil {
		panic(err)
	}
}

func (m *mainContent) onAppend(p Param) {
	if _, err := m.AppendParam(context.Background(), p); err != nil {
		panic(err)
	}
}

func (m *mainContent) onPing() {
	m.param().counter.add("Ping")
}

// traceContent records every override into a trace.
type traceContent struct {
	Base
}

type traceParam struct {
	ContentParam[traceContent, *traceContent]
	name  string
	trace *trace
	fail  map[string]error
}

func (c *traceContent) param() *traceParam {
	p, _ := ParamAs[*traceParam](c)
	return p
}

func (c *traceContent) record(op string) error {
	p := c.param()
	p.trace.add("%s:%s", p.name, op)
	return p.fail[op]
}

func (c *traceContent) OnBoot(context.Context) error    { return c.record("boot") }
func (c *traceContent) OnEnable(context.Context) error  { return c.record("enable") }
func (c *traceContent) OnRun(context.Context) error     { return c.record("run") }
func (c *traceContent) OnCompleteRun()                  { _ = c.record("complete") }
func (c *traceContent) OnSuspend(context.Context) error { return c.record("suspend") }
func (c *traceContent) OnDisable(context.Context) error { return c.record("disable") }
func (c *traceContent) OnPreShutdown()                  { _ = c.record("preshutdown") }
func (c *traceContent) OnShutdown(context.Context) error {
	return c.record("shutdown")
}

func (c *traceContent) HandleError(err error) (bool, error) {
	p := c.param()
	p.trace.add("%s:handle:%v", p.name, err)
	return false, nil
}

func traced(name string, t *trace) *traceParam {
	return &traceParam{name: name, trace: t}
}

// traceModule records every hook it's called for.
type traceModule struct {
	BaseModule
	name   string
	phases Phase
	trace  *trace
}

func newTraceModule(name string, t *trace, phases Phase) *traceModule {
	return &traceModule{name: name, phases: phases, trace: t}
}

func (m *traceModule) Phases() Phase { return m.phases }

func (m *traceModule) rec(phase Phase, c Content) error {
	m.trace.add("%s.%s(%s)", m.name, phase, traceName(c))
	return nil
}

func (m *traceModule) recSwitch(phase Phase, prev, next Content) error {
	m.trace.add("%s.%s(%s>%s)", m.name, phase, traceName(prev), traceName(next))
	return nil
}

func traceName(c Content) string {
	if c == nil {
		return "?"
	}
	if p, ok := ParamAs[*traceParam](c); ok {
		return p.name
	}
	return "?"
}

func (m *traceModule) OnPreBoot(_ context.Context, c Content) error { return m.rec(PhasePreBoot, c) }
func (m *traceModule) OnBoot(_ context.Context, c Content) error    { return m.rec(PhaseBoot, c) }
func (m *traceModule) OnPreShutdown(_ context.Context, c Content) error {
	return m.rec(PhasePreShutdown, c)
}
func (m *traceModule) OnShutdown(_ context.Context, c Content) error { return m.rec(PhaseShutdown, c) }
func (m *traceModule) OnPreRun(_ context.Context, c Content) error   { return m.rec(PhasePreRun, c) }
func (m *traceModule) OnRun(_ context.Context, c Content) error      { return m.rec(PhaseRun, c) }
func (m *traceModule) OnPreSuspend(_ context.Context, c Content) error {
	return m.rec(PhasePreSuspend, c)
}
func (m *traceModule) OnSuspend(_ context.Context, c Content) error  { return m.rec(PhaseSuspend, c) }
func (m *traceModule) OnPreEnable(_ context.Context, c Content) error { return m.rec(PhasePreEnable, c) }
func (m *traceModule) OnEnable(_ context.Context, c Content) error    { return m.rec(PhaseEnable, c) }
func (m *traceModule) OnPreDisable(_ context.Context, c Content) error {
	return m.rec(PhasePreDisable, c)
}
func (m *traceModule) OnDisable(_ context.Context, c Content) error { return m.rec(PhaseDisable, c) }
func (m *traceModule) OnPreSwitch(_ context.Context, prev, next Content) error {
	return m.recSwitch(PhasePreSwitch, prev, next)
}
func (m *traceModule) OnSwitch(_ context.Context, prev, next Content) error {
	return m.recSwitch(PhaseSwitch, prev, next)
}
func (m *traceModule) OnEndSwitch(_ context.Context, prev, next Content) error {
	return m.recSwitch(PhaseEndSwitch, prev, next)
}

func newTestController(t *testing.T, opts ...ControllerOption) *Controller {
	t.Helper()
	opts = append([]ControllerOption{WithLogger(slogx.Discard())}, opts...)
	return NewController(opts...)
}

func bootMain(t *testing.T, ctrl *Controller, c *counter) *mainContent {
	t.Helper()
	_, err := ctrl.BootRoot(context.Background(), BootParam{
		Contents: []Param{&mainParam{counter: c}},
	})
	require.NoError(t, err)
	m, ok := Get[*mainContent](ctrl, true)
	require.True(t, ok)
	return m
}

// plainContent has no overrides.
type plainContent struct {
	Base
}
