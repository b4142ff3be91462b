package cache

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/render"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestCanonicalJSON(t *testing.T) {
	type inner struct {
		Zeta  int `json:"zeta"`
		Alpha int `json:"alpha"`
	}
	type outer struct {
		Mid   string `json:"mid"`
		Inner inner  `json:"inner"`
		A     []int  `json:"a"`
	}

	got, err := CanonicalJSON(outer{Mid: "m", Inner: inner{Zeta: 2, Alpha: 1}, A: []int{3, 1}})
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	want := `{"a":[3,1],"inner":{"alpha":1,"zeta":2},"mid":"m"}`
	if string(got) != want {
		t.Errorf("CanonicalJSON = %s, want %s", got, want)
	}

	// Large integers survive the round trip unchanged.
	got, err = CanonicalJSON(map[string]int64{"n": 1 << 53})
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	if string(got) != `{"n":9007199254740992}` {
		t.Errorf("CanonicalJSON = %s", got)
	}
}

func TestDirKey(t *testing.T) {
	p := render.DoubleParams()
	base := NewDirKey(p, render.StyleRounded)

	if base.Hash() != NewDirKey(render.DoubleParams(), render.StyleRounded).Hash() {
		t.Error("DirKey hash should be deterministic")
	}
	if base.Version != keyVersion {
		t.Errorf("Version = %d, want %d", base.Version, keyVersion)
	}

	variants := map[string]DirKey{
		"style":  NewDirKey(p, render.StyleAngular),
		"single": NewDirKey(render.SingleParams(), render.StyleRounded),
		"palette": NewDirKey(p.WithColors(
			render.DefaultPalette()[:2], p.Outline, p.Background), render.StyleRounded),
		"background": NewDirKey(p.WithColors(
			p.Palette, p.Outline, render.DefaultPalette()[0]), render.StyleRounded),
	}
	for name, k := range variants {
		if k.Hash() == base.Hash() {
			t.Errorf("%s: changing the configuration should change the DirKey", name)
		}
	}
}

func TestFileKey(t *testing.T) {
	sig := graph.RowSignature{
		Lane: 1,
		Edges: []graph.Edge{
			{Kind: graph.EdgeUp, Lane: 1, AssociatedLane: 1},
			{Kind: graph.EdgeRightTop, Lane: 2, AssociatedLane: 2},
		},
	}
	k := NewFileKey(sig, 3)
	if k.Lane != 1 || k.CellCount != 3 || len(k.Edges) != 2 {
		t.Fatalf("unexpected FileKey %+v", k)
	}
	if k.Edges[1] != [3]int{int(graph.EdgeRightTop), 2, 2} {
		t.Errorf("Edges[1] = %v", k.Edges[1])
	}

	data, err := CanonicalJSON(k)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `{"cell_count":3,"edges":`) {
		t.Errorf("unexpected canonical form %s", data)
	}

	wider := NewFileKey(sig, 4)
	if k.Hash() == wider.Hash() {
		t.Error("cell count should be part of the FileKey")
	}
	moved := NewFileKey(graph.RowSignature{Lane: 0, Edges: sig.Edges}, 3)
	if k.Hash() == moved.Hash() {
		t.Error("lane should be part of the FileKey")
	}

	dir := NewDirKey(render.DoubleParams(), render.StyleRounded)
	key := Key(dir, k)
	if key != dir.Hash()+"/"+k.Hash() {
		t.Errorf("Key = %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	c, err := NewFileCache(root)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	dir, file := Hash([]byte("dir")), Hash([]byte("file"))
	key := dir + "/" + file

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get on empty cache: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, key, []byte("png"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	want := filepath.Join(root, dir, file+".png")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected entry at %s: %v", want, err)
	}

	// Setting the same key again leaves one complete file.
	if err := c.Set(ctx, key, []byte("png2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "png2" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	entries, _ := os.ReadDir(filepath.Join(root, dir))
	if len(entries) != 1 {
		t.Errorf("expected 1 file in directory, got %d", len(entries))
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, key := range []string{"ab/cd", "ab/ef", "01/23", "not hex"} {
		if err := c.Set(ctx, key, []byte("x"), 0); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 4 {
		t.Errorf("Clear removed %d entries, want 4", n)
	}
	if _, hit, _ := c.Get(ctx, "ab/cd"); hit {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "ab")); !os.IsNotExist(err) {
		t.Error("empty directory survived Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("Clear removed a file it does not own")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("Clear removed the root directory")
	}
}

func TestFileCacheUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	c, err := NewFileCache(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"../escape", "Upper/Case", "a//b", "/abs"} {
		p := c.path(key)
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			t.Errorf("path(%q) = %s escapes root", key, p)
		}
		if err := c.Set(ctx, key, []byte("x"), 0); err != nil {
			t.Errorf("Set(%q): %v", key, err)
		}
		if data, hit, _ := c.Get(ctx, key); !hit || string(data) != "x" {
			t.Errorf("Get(%q) missed", key)
		}
	}
}

func TestScopedCache(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := NewScopedCache(inner, "aa/")
	b := NewScopedCache(inner, "bb/")

	if err := a.Set(ctx, "01", []byte("a"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := b.Get(ctx, "01"); hit {
		t.Error("scopes should not share entries")
	}
	if data, hit, _ := inner.Get(ctx, "aa/01"); !hit || string(data) != "a" {
		t.Error("scoped entry should be stored under its prefix")
	}
	if err := a.Delete(ctx, "01"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := inner.Get(ctx, "aa/01"); hit {
		t.Error("Delete should remove the prefixed entry")
	}
}

type countingHooks struct {
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func testRow() (graph.RowSignature, func() render.RowImage, *int) {
	sig := graph.RowSignature{Lane: 0, Edges: []graph.Edge{{Kind: graph.EdgeDown, Lane: 0, AssociatedLane: 0}}}
	r := render.NewRenderer(render.DoubleParams())
	calls := 0
	draw := func() render.RowImage {
		calls++
		return r.Render(sig, 1, render.StyleRounded)
	}
	return sig, draw, &calls
}

func TestRowCacheLoad(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	hooks := &countingHooks{}
	dir := NewDirKey(render.DoubleParams(), render.StyleRounded)
	rc := NewRowCache(backend, dir, RowCacheOptions{Hooks: hooks})
	sig, draw, calls := testRow()

	first, hit := rc.Load(ctx, sig, 1, draw)
	if hit {
		t.Error("first load should miss")
	}
	second, hit := rc.Load(ctx, sig, 1, draw)
	if !hit {
		t.Error("second load should hit")
	}
	if *calls != 1 {
		t.Errorf("rendered %d times, want 1", *calls)
	}
	if string(first.Bytes) != string(second.Bytes) {
		t.Error("cached bytes differ from rendered bytes")
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", *hooks)
	}

	data, ok, _ := backend.Get(ctx, Key(dir, NewFileKey(sig, 1)))
	if !ok || len(data) != len(first.Bytes) {
		t.Error("row should be stored under Key(dir, file)")
	}

	img, err := render.DecodePNG(second.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestRowCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := NewDirKey(render.DoubleParams(), render.StyleRounded)
	rc := NewRowCache(backend, dir, RowCacheOptions{})
	sig, draw, calls := testRow()

	key := Key(dir, NewFileKey(sig, 1))
	if err := backend.Set(ctx, key, []byte("not a png"), 0); err != nil {
		t.Fatal(err)
	}

	if _, err := rc.Get(ctx, sig, 1); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get err = %v, want ErrCorrupt", err)
	}
	if _, hit, _ := backend.Get(ctx, key); hit {
		t.Error("corrupt entry should be deleted")
	}

	if _, hit := rc.Load(ctx, sig, 1, draw); hit {
		t.Error("load after corruption should miss")
	}
	if *calls != 1 {
		t.Errorf("rendered %d times, want 1", *calls)
	}
	if _, err := rc.Get(ctx, sig, 1); err != nil {
		t.Errorf("entry should be rewritten: %v", err)
	}
}

func TestRowCacheNilBackend(t *testing.T) {
	rc := NewRowCache(nil, NewDirKey(render.SingleParams(), render.StyleAngular), RowCacheOptions{})
	sig, draw, calls := testRow()
	for range 2 {
		if _, hit := rc.Load(context.Background(), sig, 1, draw); hit {
			t.Error("nil backend should never hit")
		}
	}
	if *calls != 2 {
		t.Errorf("rendered %d times, want 2", *calls)
	}
	if _, err := rc.Get(context.Background(), sig, 1); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get err = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestRedisCacheFailsFastAfterDisconnect(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := newRedisCache(client, RedisConfig{
		Prefix:    "lanegraph:",
		OpTimeout: 100 * time.Millisecond,
		Cooldown:  time.Minute,
	})
	defer c.Close()
	ctx := context.Background()

	start := time.Now()
	data, hit, err := c.Get(ctx, "dir/file")
	if !errors.Is(err, ErrNetwork) || hit || data != nil {
		t.Fatalf("Get = %v, %v, %v; want network error", data, hit, err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("first Get took %v, want a single short attempt", elapsed)
	}

	// The cooldown answers without touching the network.
	start = time.Now()
	if _, _, err := c.Get(ctx, "dir/file"); !errors.Is(err, ErrNetwork) {
		t.Errorf("Get during cooldown err = %v, want ErrNetwork", err)
	}
	if err := c.Set(ctx, "dir/file", []byte("png"), 0); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set during cooldown err = %v, want ErrNetwork", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("calls during cooldown took %v", elapsed)
	}
}

func TestRedisCacheUnavailableRowIsRendered(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	backend := newRedisCache(client, RedisConfig{Prefix: "lanegraph:", OpTimeout: 100 * time.Millisecond, Cooldown: time.Minute})
	defer backend.Close()

	rc := NewRowCache(backend, NewDirKey(render.DoubleParams(), render.StyleRounded), RowCacheOptions{})
	sig, draw, calls := testRow()

	start := time.Now()
	img, hit := rc.Load(context.Background(), sig, 1, draw)
	if hit || len(img.Bytes) == 0 || *calls != 1 {
		t.Errorf("Load = hit %v, %d bytes, %d renders; want one fresh render", hit, len(img.Bytes), *calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Load took %v with Redis down", elapsed)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	base := errors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, base) {
		t.Error("Retryable should unwrap to the original error")
	}
	if IsRetryable(ErrCorrupt) {
		t.Error("plain errors should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("non-retryable stops immediately", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return ErrCorrupt
		})
		if !errors.Is(err, ErrCorrupt) || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			cancel()
			return Retryable(ErrNetwork)
		})
		if !errors.Is(err, context.Canceled) || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})
}
