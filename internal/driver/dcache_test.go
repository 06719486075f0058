package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"attrlex/internal/diag"
	"attrlex/internal/source"
)

func TestTokenCacheRoundTrip(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenTokenCache: %v", err)
	}
	src := []byte("#[A(#[B] fn() => [1])] // c\n#[C)] #[D(")
	opts := Options{Cache: cache}

	first, _ := TokenizeSource("c.php", src, opts)
	if first.Cached {
		t.Fatal("first run must not hit the cache")
	}
	second, _ := TokenizeSource("c.php", src, opts)
	if !second.Cached {
		t.Fatal("second run must hit the cache")
	}

	if diff := cmp.Diff(first.Tokens, second.Tokens); diff != "" {
		t.Fatalf("tokens differ (-fresh +cached):\n%s", diff)
	}
	if diff := cmp.Diff(first.Unterminated, second.Unterminated); diff != "" {
		t.Fatalf("unterminated differ (-fresh +cached):\n%s", diff)
	}
	if diff := cmp.Diff(first.Bag.Items(), second.Bag.Items()); diff != "" {
		t.Fatalf("diagnostics differ (-fresh +cached):\n%s", diff)
	}
	if !second.Degraded {
		t.Error("cached result must keep the degraded flag")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("k.php", []byte("#[A]")))

	base := cacheKey(file, Options{})
	if base != cacheKey(file, Options{Jobs: 8}) {
		t.Error("Jobs must not change the key")
	}
	if base == cacheKey(file, Options{InlineHTML: true}) {
		t.Error("InlineHTML must change the key")
	}
	if base == cacheKey(file, Options{MaxDiagnostics: 3}) {
		t.Error("MaxDiagnostics must change the key")
	}

	other := fs.Get(fs.AddVirtual("k.php", []byte("#[B]")))
	if base == cacheKey(other, Options{}) {
		t.Error("content must change the key")
	}
}

func TestCorruptedCacheEntryIsRetokenized(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenTokenCache: %v", err)
	}
	src := []byte("#[A]")
	fs := source.NewFileSet()
	key := cacheKey(fs.Get(fs.AddVirtual("x.php", src)), Options{Cache: cache})

	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, _ := TokenizeSource("x.php", src, Options{Cache: cache})
	if res.Cached {
		t.Fatal("corrupted entry must not be used")
	}
	if res.Bag.Count(diag.IOCacheError) != 1 {
		t.Errorf("expected cache warning, got %+v", res.Bag.Items())
	}
	if res.Tokens[0].AttributeCloser != 2 {
		t.Errorf("closer = %d", res.Tokens[0].AttributeCloser)
	}

	// запись поверх битой записи чинит кэш
	again, _ := TokenizeSource("x.php", src, Options{Cache: cache})
	if !again.Cached {
		t.Error("entry must be rewritten after a failed read")
	}
}

func TestRestoreRejectsOutOfRangeSpans(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("r.php", []byte("ab")))
	payload := &CachePayload{
		Schema: tokenCacheSchemaVersion,
		Tokens: []cachedToken{{Start: 0, End: 10}},
	}
	if _, ok := payload.restore(file); ok {
		t.Fatal("restore must fail for spans past the content")
	}
}

func TestDropAll(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenTokenCache: %v", err)
	}
	opts := Options{Cache: cache}
	TokenizeSource("d.php", []byte("#[A]"), opts)
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	res, _ := TokenizeSource("d.php", []byte("#[A]"), opts)
	if res.Cached {
		t.Fatal("cache must be empty after DropAll")
	}
}
