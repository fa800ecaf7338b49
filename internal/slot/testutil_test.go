package slot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"assistd/internal/llm"
	"assistd/pkg/types"
)

// helper: create a weights file of approximately sizeMB megabytes
func createWeightsFile(t *testing.T, dir, name string, sizeMB int) string {
	t.Helper()
	if sizeMB <= 0 {
		sizeMB = 1
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()
	block := make([]byte, 1024*1024)
	for i := 0; i < sizeMB; i++ {
		if _, err := f.Write(block); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := f.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	return p
}

// estMB mirrors the footprint estimate for a fabricated file of sizeMB.
func estMB(sizeMB int) int { return sizeMB * overheadPctNum / overheadPctDen }

type fakeSession struct {
	out    string
	genErr error
	closed bool
}

func (s *fakeSession) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.out, s.genErr
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeAdapter struct {
	loads    int
	out      string
	failPath string // Load fails for this path
	sessions []*fakeSession
}

func (a *fakeAdapter) Load(path string, p llm.Params) (llm.Session, error) {
	if a.failPath != "" && a.failPath == path {
		return nil, errors.New("weights unreadable")
	}
	a.loads++
	s := &fakeSession{out: a.out}
	a.sessions = append(a.sessions, s)
	return s, nil
}

// newTestManager builds a manager over fabricated weight files.
// sizes maps role -> file size in MB; resident marks always-resident roles.
func newTestManager(t *testing.T, budgetMB int, sizes map[Role]int, resident map[Role]bool) (*Manager, *fakeAdapter, *MemoryPublisher) {
	t.Helper()
	dir := t.TempDir()
	models := make(map[Role]types.Model, len(sizes))
	slots := make(map[Role]SlotConfig, len(sizes))
	for role, mb := range sizes {
		p := createWeightsFile(t, dir, string(role)+".gguf", mb)
		models[role] = types.Model{ID: string(role) + ".gguf", Path: p}
		slots[role] = SlotConfig{AlwaysResident: resident[role]}
	}
	ad := &fakeAdapter{out: "ok"}
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{
		Models:    models,
		Slots:     slots,
		BudgetMB:  budgetMB,
		Adapter:   ad,
		Publisher: pub,
	})
	return m, ad, pub
}

// setLastUsed backdates a loaded slot for LRU-order tests.
func setLastUsed(m *Manager, role Role, ts time.Time) {
	m.mu.Lock()
	m.slots[role].lastUsed = ts
	m.mu.Unlock()
}
