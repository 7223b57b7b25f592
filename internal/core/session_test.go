package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSession_Lifecycle(t *testing.T) {
	sess := NewSession("s1")

	snap := sess.Snapshot()
	if snap.Version != 0 || !snap.Dataset.IsEmpty() || snap.Available() {
		t.Errorf("initial snapshot = %+v, want empty version 0", snap)
	}

	snap = sess.SwitchDataset("people", peopleDataset(t), nil)
	if snap.Version != 1 || snap.DatasetID != "people" || !snap.Available() {
		t.Errorf("after switch = %+v, want version 1 people available", snap)
	}

	snap, err := sess.ApplyFilter("age", []string{"30"})
	if err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}
	if snap.Version != 2 {
		t.Errorf("Version = %d, want 2", snap.Version)
	}
	if got := len(snap.VisibleRows()); got != 2 {
		t.Errorf("VisibleRows() len = %d, want 2", got)
	}

	opts, err := snap.Options("age")
	if err != nil {
		t.Fatalf("Options(age) error = %v", err)
	}
	if len(opts) != 2 {
		t.Errorf("Options(age) = %v, want 2 options", opts)
	}

	snap = sess.ClearAll()
	if snap.Version != 3 || snap.State.Active() != 0 {
		t.Errorf("after ClearAll = %+v, want version 3 with no active filters", snap)
	}
}

func TestSession_UnknownFilterLeavesSnapshot(t *testing.T) {
	sess := NewSession("s1")
	sess.SwitchDataset("people", peopleDataset(t), nil)
	before, _ := sess.ApplyFilter("age", []string{"30"})

	got, err := sess.ApplyFilter("colour", []string{"red"})
	if !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("ApplyFilter() error = %v, want ErrUnknownFilter", err)
	}
	if got.Version != before.Version || !got.State.Equal(before.State) {
		t.Errorf("snapshot changed to %+v, want %+v", got, before)
	}
	if cur := sess.Snapshot(); cur.Version != before.Version {
		t.Errorf("session Version = %d, want %d", cur.Version, before.Version)
	}
}

func TestSession_SwitchResetsState(t *testing.T) {
	sess := NewSession("s1")
	sess.SwitchDataset("people", peopleDataset(t), nil)
	sess.ApplyFilter("age", []string{"30"})

	// Same column keys as the previous dataset; selections must still reset.
	other, err := NewDataset(
		[]string{"id", "name", "age"},
		[][]string{{"9", "Dana", "30"}, {"10", "Eve", "41"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	snap := sess.SwitchDataset("others", other, nil)
	if snap.State.Active() != 0 {
		t.Errorf("Active() = %d after switch, want 0", snap.State.Active())
	}
	if !snap.State.Equal(EmptyState(other)) {
		t.Errorf("State = %v, want %v", snap.State, EmptyState(other))
	}
	if got := len(snap.VisibleRows()); got != other.Len() {
		t.Errorf("VisibleRows() len = %d, want %d", got, other.Len())
	}
}

func TestSession_SwitchFailure(t *testing.T) {
	sess := NewSession("s1")
	sess.SwitchDataset("people", peopleDataset(t), nil)

	loadErr := errors.New("open data/missing.csv: no such file or directory")
	snap := sess.SwitchDataset("missing", peopleDataset(t), loadErr)

	if !errors.Is(snap.LoadErr, ErrSourceUnavailable) {
		t.Errorf("LoadErr = %v, want ErrSourceUnavailable", snap.LoadErr)
	}
	if !errors.Is(snap.LoadErr, loadErr) {
		t.Errorf("LoadErr = %v, want it to wrap the load error", snap.LoadErr)
	}
	if !snap.Dataset.IsEmpty() || snap.Available() {
		t.Error("failed switch should install an empty dataset")
	}
	if rows := snap.VisibleRows(); len(rows) != 0 {
		t.Errorf("VisibleRows() = %v, want none", rows)
	}
	if _, err := sess.ApplyFilter("age", []string{"30"}); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("ApplyFilter() on empty dataset error = %v, want ErrUnknownFilter", err)
	}
}

func TestSession_SwitchNilDataset(t *testing.T) {
	sess := NewSession("s1")
	snap := sess.SwitchDataset("ghost", nil, nil)

	if !errors.Is(snap.LoadErr, ErrSourceUnavailable) {
		t.Errorf("LoadErr = %v, want ErrSourceUnavailable", snap.LoadErr)
	}
	if !snap.Dataset.IsEmpty() {
		t.Error("Dataset should be empty")
	}
}

func TestSession_OldSnapshotUnchanged(t *testing.T) {
	sess := NewSession("s1")
	sess.SwitchDataset("people", peopleDataset(t), nil)
	old, _ := sess.ApplyFilter("age", []string{"30"})

	sess.ApplyFilter("name", []string{"Bob"})

	if got := old.State["age"]; len(got) != 1 || got[0] != "30" {
		t.Errorf("old snapshot age = %v, want [30]", got)
	}
	if got := len(old.VisibleRows()); got != 2 {
		t.Errorf("old VisibleRows() len = %d, want 2", got)
	}
}

func TestSession_ConcurrentTransitions(t *testing.T) {
	sess := NewSession("s1")
	sess.SwitchDataset("sales", salesDataset(t), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sess.ApplyFilter("region", []string{"EU"})
		}()
		go func() {
			defer wg.Done()
			snap := sess.Snapshot()
			_ = snap.Facets()
			_ = snap.VisibleRows()
		}()
	}
	wg.Wait()

	if got := sess.Snapshot().Version; got != 51 {
		t.Errorf("Version = %d, want 51", got)
	}
}

func TestSessionStore_CreateGet(t *testing.T) {
	store := NewSessionStore(time.Minute)

	sess := store.Create()
	if sess.ID() == "" {
		t.Fatal("Create() returned empty ID")
	}

	got, err := store.Get(sess.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != sess {
		t.Error("Get() returned a different session")
	}

	if _, err := store.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrSessionNotFound", err)
	}

	store.Delete(sess.ID())
	if _, err := store.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(time.Minute)
	sess := store.Create()
	store.Create()

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := store.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() on expired session error = %v, want ErrSessionNotFound", err)
	}

	if removed := store.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, want 2", removed)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestSessionStore_DefaultTTL(t *testing.T) {
	store := NewSessionStore(0)
	if store.ttl != DefaultSessionTTL {
		t.Errorf("ttl = %v, want %v", store.ttl, DefaultSessionTTL)
	}
}

func TestSessionStore_Sweeper(t *testing.T) {
	store := NewSessionStore(time.Minute)
	store.Create()
	store.mu.Lock()
	store.now = func() time.Time { return time.Now().Add(time.Hour) }
	store.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.StartSweeper(ctx, SweepConfig{Interval: 5 * time.Millisecond})
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not remove expired session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
