// Package slot provides lifecycle and memory-budget coordination for the
// fixed set of model roles. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig/SlotConfig and package defaults.
//   - types.go: internal state types (Role, Slot).
//   - errors.go: error types and helpers (IsRoleNotBound, IsLoadError).
//   - helpers.go: small utilities (footprint estimation).
//   - ensure.go: EnsureLoaded lifecycle and loading.
//   - evict.go: LRU eviction logic to fit within the memory budget.
//   - unload.go: Unload/UnloadAll teardown.
//   - generate.go: Generate convenience entry point used by callers.
//   - status.go: MemoryUsage/Status reporting helpers.
//   - idle.go: idle-timeout housekeeping.
//   - events.go: lifecycle event publishing seam.
//
// The Manager exclusively owns every loaded model handle. Other components
// obtain a borrowed session through EnsureLoaded (or call Generate) and must
// never cache it past the current step.
package slot
