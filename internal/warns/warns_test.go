package warns

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
	"github.com/google/go-cmp/cmp"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	s := NewService(fs)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s, dir
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	first, err := s.Add(ctx, "g", "u", "spam", "mod1")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := s.Add(ctx, "g", "u", "insultes", "mod2"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(first.ID) != 8 {
		t.Errorf("ID = %q, want 8 characters", first.ID)
	}
	if first.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d, want 1700000000", first.Timestamp)
	}

	got := s.List("g", "u")
	if len(got) != 2 || got[0].Reason != "spam" || got[1].Reason != "insultes" {
		t.Errorf("List() = %+v, want spam then insultes", got)
	}
	if len(s.List("g", "other")) != 0 {
		t.Error("List() for a user without warns should be empty")
	}
}

func TestWarnsPersist(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestService(t)

	w, err := s.Add(ctx, "g", "u", "spam", "mod")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	fs, _ := store.NewFileStore(dir)
	reloaded := NewService(fs)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]models.Warn{w}, reloaded.List("g", "u")); diff != "" {
		t.Errorf("reloaded warns mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	a, _ := s.Add(ctx, "g", "u", "a", "m")
	b, _ := s.Add(ctx, "g", "u", "b", "m")
	c, _ := s.Add(ctx, "g", "u", "c", "m")

	removed, err := s.RemoveByID(ctx, "g", "u", b.ID)
	if err != nil || removed.ID != b.ID {
		t.Fatalf("RemoveByID() = %+v, %v", removed, err)
	}
	if _, err := s.RemoveByID(ctx, "g", "u", b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveByID() twice error = %v, want ErrNotFound", err)
	}

	removed, err = s.RemoveAt(ctx, "g", "u", 2)
	if err != nil || removed.ID != c.ID {
		t.Fatalf("RemoveAt(2) = %+v, %v, want %s", removed, err, c.ID)
	}

	for _, pos := range []int{0, 2, -1} {
		if _, err := s.RemoveAt(ctx, "g", "u", pos); !errors.Is(err, ErrNotFound) {
			t.Errorf("RemoveAt(%d) error = %v, want ErrNotFound", pos, err)
		}
	}

	if diff := cmp.Diff([]models.Warn{a}, s.List("g", "u")); diff != "" {
		t.Errorf("remaining warns mismatch (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	s.Add(ctx, "g", "u", "a", "m")
	s.Add(ctx, "g", "u", "b", "m")

	n, err := s.Clear(ctx, "g", "u")
	if err != nil || n != 2 {
		t.Errorf("Clear() = %d, %v, want 2, nil", n, err)
	}
	if n, _ := s.Clear(ctx, "g", "u"); n != 0 {
		t.Errorf("Clear() again = %d, want 0", n)
	}
	if _, ok := s.data["g"]; ok {
		t.Error("empty guild not pruned")
	}
}

func TestConcurrentRemoveAtRemovesDistinctWarns(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	for i := 0; i < 10; i++ {
		s.Add(ctx, "g", "u", "r", "m")
	}

	var wg sync.WaitGroup
	ids := make(chan string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := s.RemoveAt(ctx, "g", "u", 1)
			if err == nil {
				ids <- w.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("warn %s removed twice", id)
		}
		seen[id] = true
	}
	if len(seen) != 10 {
		t.Errorf("removed %d warns, want 10", len(seen))
	}
	if got := s.List("g", "u"); len(got) != 0 {
		t.Errorf("List() = %d warns left, want 0", len(got))
	}
}

// flakyStore wraps a FileStore and fails every Save while fail is set
type flakyStore struct {
	store.Store
	fail bool
}

var errSave = errors.New("HTTP 503 Service Unavailable")

func (s *flakyStore) Save(ctx context.Context, name string, v any) error {
	if s.fail {
		return errSave
	}
	return s.Store.Save(ctx, name, v)
}

func TestFailedSaveLeavesWarnsUnchanged(t *testing.T) {
	ctx := context.Background()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	flaky := &flakyStore{Store: fs}
	s := NewService(flaky)

	a, _ := s.Add(ctx, "g", "u", "spam", "m")
	b, _ := s.Add(ctx, "g", "u", "flood", "m")
	want := []models.Warn{a, b}

	flaky.fail = true

	if w, err := s.Add(ctx, "g", "u", "insultes", "m"); !errors.Is(err, errSave) || w.ID != "" {
		t.Errorf("Add() = %+v, %v, want zero warn and %v", w, err, errSave)
	}
	if diff := cmp.Diff(want, s.List("g", "u")); diff != "" {
		t.Errorf("after failed Add (-want +got):\n%s", diff)
	}

	if _, err := s.Add(ctx, "g2", "v", "spam", "m"); !errors.Is(err, errSave) {
		t.Errorf("Add() in a new guild error = %v, want %v", err, errSave)
	}
	if _, ok := s.data["g2"]; ok {
		t.Error("failed Add left a new guild behind")
	}

	if _, err := s.RemoveByID(ctx, "g", "u", a.ID); !errors.Is(err, errSave) {
		t.Errorf("RemoveByID() error = %v, want %v", err, errSave)
	}
	if _, err := s.RemoveAt(ctx, "g", "u", 2); !errors.Is(err, errSave) {
		t.Errorf("RemoveAt() error = %v, want %v", err, errSave)
	}
	if n, err := s.Clear(ctx, "g", "u"); !errors.Is(err, errSave) || n != 0 {
		t.Errorf("Clear() = %d, %v, want 0, %v", n, err, errSave)
	}
	if diff := cmp.Diff(want, s.List("g", "u")); diff != "" {
		t.Errorf("after failed removals (-want +got):\n%s", diff)
	}

	flaky.fail = false
	if _, err := s.RemoveByID(ctx, "g", "u", a.ID); err != nil {
		t.Fatalf("RemoveByID() after recovery error = %v", err)
	}
	if diff := cmp.Diff([]models.Warn{b}, s.List("g", "u")); diff != "" {
		t.Errorf("after recovery (-want +got):\n%s", diff)
	}
}

func TestManyWarnsOnFileBackend(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestService(t)

	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("%018d", 100000000000000000+i)
		if _, err := s.Add(ctx, "123456789012345678", userID, "Spam dans le salon général", "876543210987654321"); err != nil {
			t.Fatalf("Add() #%d error = %v", i+1, err)
		}
	}

	fs, _ := store.NewFileStore(dir)
	reloaded := NewService(fs)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(reloaded.data["123456789012345678"]); got != 50 {
		t.Errorf("reloaded users = %d, want 50", got)
	}
}

func TestLoadNull(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestService(t)

	if err := os.WriteFile(filepath.Join(dir, store.FileName(store.NameWarns)), []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := s.Add(ctx, "g", "u", "spam", "m"); err != nil {
		t.Fatalf("Add() after loading null error = %v", err)
	}
	if got := len(s.List("g", "u")); got != 1 {
		t.Errorf("List() = %d warns, want 1", got)
	}
}

func TestSaveErrorNamesTheValueOnce(t *testing.T) {
	s, dir := newTestService(t)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	_, err := s.Add(context.Background(), "g", "u", "spam", "m")
	if err == nil {
		t.Fatal("Add() into a removed data dir should fail")
	}
	if n := strings.Count(err.Error(), "save warns"); n != 1 {
		t.Errorf("error %q names the save %d times, want 1", err, n)
	}
}
