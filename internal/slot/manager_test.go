package slot

import (
	"context"
	"testing"
	"time"

	"assistd/internal/llm"
	"assistd/pkg/types"
)

func TestNewWithConfigDefaults(t *testing.T) {
	m, _, _ := newTestManager(t, 0, map[Role]int{RoleRouter: 1}, nil)
	m.mu.Lock()
	sc := m.slots[RoleRouter].Config
	m.mu.Unlock()
	if sc.CtxSize != defaultCtxSize {
		t.Fatalf("expected default ctx size %d got %d", defaultCtxSize, sc.CtxSize)
	}
	if sc.MaxTokens != defaultMaxTokens {
		t.Fatalf("expected default max tokens %d got %d", defaultMaxTokens, sc.MaxTokens)
	}
}

func TestEnsureLoadedLoadsOnceAndTouches(t *testing.T) {
	m, ad, _ := newTestManager(t, 0, map[Role]int{RoleRouter: 2}, nil)
	ctx := context.Background()

	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !m.Loaded(RoleRouter) {
		t.Fatalf("expected router loaded")
	}
	first := lastUsedOf(m, RoleRouter)

	time.Sleep(2 * time.Millisecond)
	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if ad.loads != 1 {
		t.Fatalf("expected a single adapter load, got %d", ad.loads)
	}
	if !lastUsedOf(m, RoleRouter).After(first) {
		t.Fatalf("expected lastUsed to advance on the fast path")
	}
}

func lastUsedOf(m *Manager, role Role) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[role].lastUsed
}

func TestEnsureLoadedUnboundRole(t *testing.T) {
	m, _, _ := newTestManager(t, 0, map[Role]int{RoleRouter: 1}, nil)
	_, err := m.EnsureLoaded(context.Background(), RoleSpecialist)
	if err == nil || !IsRoleNotBound(err) {
		t.Fatalf("expected role-not-bound error, got %v", err)
	}
}

func TestLoadFailureLeavesSlotUntouched(t *testing.T) {
	m, ad, pub := newTestManager(t, 0, map[Role]int{RolePrimary: 3}, nil)
	m.mu.Lock()
	ad.failPath = m.slots[RolePrimary].Model.Path
	m.mu.Unlock()

	_, err := m.EnsureLoaded(context.Background(), RolePrimary)
	if err == nil {
		t.Fatalf("expected load error")
	}
	role, ok := IsLoadError(err)
	if !ok || role != RolePrimary {
		t.Fatalf("expected load error naming primary, got %v", err)
	}
	if m.Loaded(RolePrimary) {
		t.Fatalf("slot must stay unloaded after a failed load")
	}
	if u := m.MemoryUsage(); u.TotalMB != 0 {
		t.Fatalf("failed load must not consume budget, used=%d", u.TotalMB)
	}
	names := pub.Names()
	if len(names) == 0 || names[len(names)-1] != EventLoadError {
		t.Fatalf("expected trailing load_error event, got %v", names)
	}
}

func TestUnloadIdempotentAndReleasesMemory(t *testing.T) {
	m, ad, _ := newTestManager(t, 0, map[Role]int{RolePrimary: 5}, nil)
	if _, err := m.EnsureLoaded(context.Background(), RolePrimary); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if u := m.MemoryUsage(); u.TotalMB != estMB(5) {
		t.Fatalf("expected used=%d got %d", estMB(5), u.TotalMB)
	}

	if err := m.Unload(RolePrimary); err != nil {
		t.Fatalf("unload: %v", err)
	}
	if m.Loaded(RolePrimary) {
		t.Fatalf("expected unloaded")
	}
	if !ad.sessions[0].closed {
		t.Fatalf("expected session closed on unload")
	}
	if u := m.MemoryUsage(); u.TotalMB != 0 {
		t.Fatalf("expected used=0 after unload, got %d", u.TotalMB)
	}

	// Second unload is a no-op, unknown role is an error.
	if err := m.Unload(RolePrimary); err != nil {
		t.Fatalf("unload twice: %v", err)
	}
	if err := m.Unload(RoleSpecialist); err == nil || !IsRoleNotBound(err) {
		t.Fatalf("expected role-not-bound, got %v", err)
	}
}

func TestUnloadAll(t *testing.T) {
	m, _, _ := newTestManager(t, 0, map[Role]int{RoleRouter: 1, RolePrimary: 2}, nil)
	ctx := context.Background()
	for _, r := range []Role{RoleRouter, RolePrimary} {
		if _, err := m.EnsureLoaded(ctx, r); err != nil {
			t.Fatalf("ensure %s: %v", r, err)
		}
	}
	m.UnloadAll()
	if m.Loaded(RoleRouter) || m.Loaded(RolePrimary) {
		t.Fatalf("expected all slots unloaded")
	}
	if u := m.MemoryUsage(); u.TotalMB != 0 {
		t.Fatalf("expected used=0, got %d", u.TotalMB)
	}
}

func TestMemoryUsagePerRole(t *testing.T) {
	m, _, _ := newTestManager(t, 0, map[Role]int{RoleRouter: 2, RolePrimary: 5}, nil)
	ctx := context.Background()
	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := m.EnsureLoaded(ctx, RolePrimary); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	u := m.MemoryUsage()
	if u.PerRole[RoleRouter] != estMB(2) || u.PerRole[RolePrimary] != estMB(5) {
		t.Fatalf("unexpected per-role usage: %v", u.PerRole)
	}
	if u.TotalMB != estMB(2)+estMB(5) {
		t.Fatalf("unexpected total: %d", u.TotalMB)
	}
}

func TestGenerateUsesSlotDefaults(t *testing.T) {
	m, ad, _ := newTestManager(t, 0, map[Role]int{RoleRouter: 1}, nil)
	out, err := m.Generate(context.Background(), RoleRouter, "hello", types.GenerateParams{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "ok" {
		t.Fatalf("expected fake output, got %q", out)
	}
	if ad.loads != 1 {
		t.Fatalf("expected generate to load on demand")
	}
}

func TestIdleSweeperUnloadsIdleSlots(t *testing.T) {
	dirSizes := map[Role]int{RoleRouter: 1, RolePrimary: 2}
	m, _, pub := newTestManager(t, 0, dirSizes, map[Role]bool{RoleRouter: true})
	m.mu.Lock()
	for _, s := range m.slots {
		s.Config.IdleUnload = 10 * time.Millisecond
	}
	m.mu.Unlock()

	ctx := context.Background()
	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := m.EnsureLoaded(ctx, RolePrimary); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	old := time.Now().Add(-time.Second)
	setLastUsed(m, RoleRouter, old)
	setLastUsed(m, RolePrimary, old)

	m.sweepIdle(time.Now())

	if !m.Loaded(RoleRouter) {
		t.Fatalf("always-resident slot must survive the sweep")
	}
	if m.Loaded(RolePrimary) {
		t.Fatalf("idle primary should be unloaded")
	}
	found := false
	for _, n := range pub.Names() {
		if n == EventIdleUnload {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected idle_unload event, got %v", pub.Names())
	}
}

// blockingSession parks inside Generate until released, so tests can hold a
// borrow open while poking the manager from another goroutine.
type blockingSession struct {
	started chan struct{}
	release chan struct{}
	closed  bool
}

func (s *blockingSession) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	close(s.started)
	<-s.release
	return "done", nil
}

func (s *blockingSession) Close() error {
	s.closed = true
	return nil
}

type blockingAdapter struct{ sess *blockingSession }

func (a *blockingAdapter) Load(path string, p llm.Params) (llm.Session, error) {
	return a.sess, nil
}

func TestIdleSweeperSparesInFlightGeneration(t *testing.T) {
	dir := t.TempDir()
	p := createWeightsFile(t, dir, "primary.gguf", 1)
	sess := &blockingSession{started: make(chan struct{}), release: make(chan struct{})}
	m := NewWithConfig(ManagerConfig{
		Models:  map[Role]types.Model{RolePrimary: {ID: "primary.gguf", Path: p}},
		Slots:   map[Role]SlotConfig{RolePrimary: {IdleUnload: time.Millisecond}},
		Adapter: &blockingAdapter{sess: sess},
	})

	done := make(chan error, 1)
	go func() {
		_, err := m.Generate(context.Background(), RolePrimary, "long task", types.GenerateParams{})
		done <- err
	}()
	<-sess.started

	// The slot looks idle by timestamp (sweep time is far past the load
	// stamp plus the 1ms timeout), but the in-flight borrow pins it.
	m.sweepIdle(time.Now().Add(time.Hour))
	if sess.closed {
		t.Fatal("sweeper closed a session with a generation in flight")
	}
	if !m.Loaded(RolePrimary) {
		t.Fatal("slot must stay loaded while generating")
	}

	close(sess.release)
	if err := <-done; err != nil {
		t.Fatalf("generate: %v", err)
	}

	// With the borrow returned, the idle timeout applies again.
	m.sweepIdle(time.Now().Add(time.Hour))
	if !sess.closed {
		t.Fatal("sweeper must unload the slot once the borrow is returned")
	}
}
