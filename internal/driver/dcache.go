package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"attrlex/internal/diag"
	"attrlex/internal/source"
	"attrlex/internal/token"
)

// Current schema version - increment when CachePayload format changes
const tokenCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// TokenCache хранит результаты токенизации на диске, ключ — хэш содержимого
// файла вместе с опциями, влияющими на результат.
// Thread-safe for concurrent access.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the on-disk form of one tokenization. Token text is not
// stored: it is re-sliced from the file content on load.
type CachePayload struct {
	Schema       uint16
	Tokens       []cachedToken
	Unterminated []int
	Diags        []cachedDiag
}

type cachedToken struct {
	Kind       uint8
	Start, End uint32
	Line, Col  uint32
	Opener     int
	Closer     int
}

type cachedDiag struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []cachedNote
	Fixes      []cachedFix
}

type cachedNote struct {
	Start, End uint32
	Msg        string
}

type cachedFix struct {
	Title string
	Edits []cachedEdit
}

type cachedEdit struct {
	Start, End uint32
	NewText    string
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenTokenCache creates the cache directory if needed. An empty dir selects
// DefaultCacheDir("attrlex").
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir("attrlex"); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// cacheKey: H(schema || content hash || options). Encoding is not part of the
// key: File.Hash is already computed over the decoded content.
func cacheKey(file *source.File, opts Options) Digest {
	h := sha256.New()
	var hdr [2]byte
	binary.LittleEndian.PutUint16(hdr[:], tokenCacheSchemaVersion)
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(file.Hash[:])
	var flags byte
	if opts.InlineHTML {
		flags = 1
	}
	_, _ = h.Write([]byte{flags})
	var limit [8]byte
	binary.LittleEndian.PutUint64(limit[:], uint64(max(opts.MaxDiagnostics, 0)))
	_, _ = h.Write(limit[:])

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *TokenCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не копить всё в одной папке
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *TokenCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. A missing entry is (false, nil).
func (c *TokenCache) Get(key Digest, out *CachePayload) (found bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == tokenCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func newCachePayload(tokens []token.Token, unterminated []int, diags []diag.Diagnostic) *CachePayload {
	payload := &CachePayload{
		Schema:       tokenCacheSchemaVersion,
		Tokens:       make([]cachedToken, len(tokens)),
		Unterminated: append([]int(nil), unterminated...),
		Diags:        make([]cachedDiag, len(diags)),
	}
	for i, tok := range tokens {
		payload.Tokens[i] = cachedToken{
			Kind:   uint8(tok.Kind),
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Line:   tok.Line,
			Col:    tok.Col,
			Opener: tok.AttributeOpener,
			Closer: tok.AttributeCloser,
		}
	}
	for i, d := range diags {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, fx := range d.Fixes {
			cf := cachedFix{Title: fx.Title}
			for _, e := range fx.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diags[i] = cd
	}
	return payload
}

type restoredRun struct {
	tokens       []token.Token
	unterminated []int
	diags        []diag.Diagnostic
}

// restore rebuilds tokens against file. ok is false when a span does not fit the
// content (hash collision or a corrupted entry); the caller then re-tokenizes.
func (p *CachePayload) restore(file *source.File) (restoredRun, bool) {
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return restoredRun{}, false
	}
	span := func(start, end uint32) (source.Span, bool) {
		if start > end || end > size {
			return source.Span{}, false
		}
		return source.Span{File: file.ID, Start: start, End: end}, true
	}

	out := restoredRun{
		tokens:       make([]token.Token, len(p.Tokens)),
		unterminated: p.Unterminated,
		diags:        make([]diag.Diagnostic, 0, len(p.Diags)),
	}
	for i, ct := range p.Tokens {
		sp, ok := span(ct.Start, ct.End)
		if !ok {
			return restoredRun{}, false
		}
		out.tokens[i] = token.Token{
			Kind:            token.Kind(ct.Kind),
			Span:            sp,
			Text:            string(file.Content[sp.Start:sp.End]),
			Index:           i,
			Line:            ct.Line,
			Col:             ct.Col,
			AttributeOpener: ct.Opener,
			AttributeCloser: ct.Closer,
		}
	}
	for _, cd := range p.Diags {
		primary, ok := span(cd.Start, cd.End)
		if !ok {
			return restoredRun{}, false
		}
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), primary, cd.Message)
		for _, n := range cd.Notes {
			sp, ok := span(n.Start, n.End)
			if !ok {
				return restoredRun{}, false
			}
			d = d.WithNote(sp, n.Msg)
		}
		for _, cf := range cd.Fixes {
			edits := make([]diag.FixEdit, 0, len(cf.Edits))
			for _, e := range cf.Edits {
				sp, ok := span(e.Start, e.End)
				if !ok {
					return restoredRun{}, false
				}
				edits = append(edits, diag.FixEdit{Span: sp, NewText: e.NewText})
			}
			d = d.WithFix(cf.Title, edits...)
		}
		out.diags = append(out.diags, d)
	}
	return out, true
}
