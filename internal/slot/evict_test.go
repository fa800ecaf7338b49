package slot

import (
	"context"
	"testing"
	"time"
)

func TestEvictionLRUOldestFirst(t *testing.T) {
	// Three loaded non-exempt roles with distinct ages; a new load must
	// evict strictly oldest-first until it fits.
	sizes := map[Role]int{RoleRouter: 10, RolePrimary: 10, RoleSpecialist: 15}
	m, _, pub := newTestManager(t, estMB(10)+estMB(10)+estMB(15)-1, sizes, nil)
	ctx := context.Background()

	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure router: %v", err)
	}
	if _, err := m.EnsureLoaded(ctx, RolePrimary); err != nil {
		t.Fatalf("ensure primary: %v", err)
	}
	now := time.Now()
	setLastUsed(m, RoleRouter, now.Add(-2*time.Minute)) // oldest
	setLastUsed(m, RolePrimary, now.Add(-1*time.Minute))

	if _, err := m.EnsureLoaded(ctx, RoleSpecialist); err != nil {
		t.Fatalf("ensure specialist: %v", err)
	}

	if m.Loaded(RoleRouter) {
		t.Fatalf("expected oldest slot (router) evicted")
	}
	if !m.Loaded(RolePrimary) || !m.Loaded(RoleSpecialist) {
		t.Fatalf("expected primary and specialist loaded")
	}
	// Exactly one eviction, of the router.
	evicted := []Role{}
	for _, e := range pub.Events() {
		if e.Name == EventEvict {
			evicted = append(evicted, e.Role)
		}
	}
	if len(evicted) != 1 || evicted[0] != RoleRouter {
		t.Fatalf("expected single eviction of router, got %v", evicted)
	}
}

func TestAlwaysResidentNeverEvicted(t *testing.T) {
	// Budget fits router + specialist but not all three; the specialist
	// load evicts primary, the only non-exempt candidate, even though the
	// router is older.
	sizes := map[Role]int{RoleRouter: 100, RolePrimary: 500, RoleSpecialist: 600}
	budget := estMB(100) + estMB(600) + estMB(500)/2
	m, _, _ := newTestManager(t, budget, sizes, map[Role]bool{RoleRouter: true})
	ctx := context.Background()

	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure router: %v", err)
	}
	if _, err := m.EnsureLoaded(ctx, RolePrimary); err != nil {
		t.Fatalf("ensure primary: %v", err)
	}
	setLastUsed(m, RoleRouter, time.Now().Add(-time.Hour)) // ancient but exempt

	if _, err := m.EnsureLoaded(ctx, RoleSpecialist); err != nil {
		t.Fatalf("ensure specialist: %v", err)
	}

	if !m.Loaded(RoleRouter) {
		t.Fatalf("always-resident router must never be evicted")
	}
	if m.Loaded(RolePrimary) {
		t.Fatalf("expected primary evicted")
	}
	want := estMB(100) + estMB(600)
	if u := m.MemoryUsage(); u.TotalMB != want {
		t.Fatalf("expected used=%d got %d", want, u.TotalMB)
	}
	if m.BudgetExceeded() {
		t.Fatalf("eviction freed enough room; no soft overflow expected")
	}
}

func TestSoftOverflowProceedsWithWarning(t *testing.T) {
	// Only exempt slots are loaded and the new load cannot fit: the load
	// proceeds anyway and the overflow is distinguishable.
	sizes := map[Role]int{RoleRouter: 10, RolePrimary: 20}
	m, _, pub := newTestManager(t, estMB(10)+5, sizes, map[Role]bool{RoleRouter: true})
	ctx := context.Background()

	if _, err := m.EnsureLoaded(ctx, RoleRouter); err != nil {
		t.Fatalf("ensure router: %v", err)
	}
	if _, err := m.EnsureLoaded(ctx, RolePrimary); err != nil {
		t.Fatalf("soft overflow must not fail the load: %v", err)
	}
	if !m.Loaded(RolePrimary) {
		t.Fatalf("expected primary loaded despite overflow")
	}
	if !m.BudgetExceeded() {
		t.Fatalf("expected soft-overflow flag set")
	}
	found := false
	for _, n := range pub.Names() {
		if n == EventBudgetSoftExceeded {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected budget_soft_exceeded event, got %v", pub.Names())
	}

	// Unloading clears the flag once usage drops back under budget.
	if err := m.Unload(RolePrimary); err != nil {
		t.Fatalf("unload: %v", err)
	}
	if m.BudgetExceeded() {
		t.Fatalf("expected soft-overflow flag cleared after unload")
	}
}

func TestBudgetInvariantAfterEachCall(t *testing.T) {
	sizes := map[Role]int{RoleRouter: 5, RolePrimary: 10, RoleSpecialist: 10}
	budget := estMB(10) + estMB(5) + 1
	m, _, _ := newTestManager(t, budget, sizes, nil)
	ctx := context.Background()

	seq := []Role{RoleRouter, RolePrimary, RoleSpecialist, RoleRouter, RolePrimary}
	for i, r := range seq {
		if _, err := m.EnsureLoaded(ctx, r); err != nil {
			t.Fatalf("step %d ensure %s: %v", i, r, err)
		}
		u := m.MemoryUsage()
		if u.TotalMB > budget && !m.BudgetExceeded() {
			t.Fatalf("step %d: used %d exceeds budget %d without soft-overflow flag", i, u.TotalMB, budget)
		}
		// Distinct timestamps for deterministic LRU order.
		time.Sleep(2 * time.Millisecond)
	}
}
