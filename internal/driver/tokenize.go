package driver

import (
	"context"
	"fmt"
	"strconv"

	"attrlex/internal/diag"
	"attrlex/internal/lexer"
	"attrlex/internal/observ"
	"attrlex/internal/source"
	"attrlex/internal/token"
	"attrlex/internal/trace"
)

type TokenizeResult struct {
	FileSet      *source.FileSet
	File         *source.File
	Tokens       []token.Token
	Unterminated []int // openers whose span reached EOF
	Bag          *diag.Bag
	Degraded     bool // хотя бы один атрибут не закрыт
	Cached       bool // токены восстановлены из TokenCache
}

// Tokenize loads one file from disk, decodes it and tokenizes it. Under
// PolicyStrict a degraded result is returned together with an error wrapping
// ErrUnterminatedAttribute.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.LoadWithEncoding(path, opts.encoding())
	if err != nil {
		return nil, err
	}
	res := tokenizeFile(ctx, fs, fs.Get(fileID), opts)
	return res, res.policyError(opts.Policy)
}

// TokenizeSource tokenizes an in-memory buffer (stdin, tests). content must
// already be UTF-8.
func TokenizeSource(name string, content []byte, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	res := tokenizeFile(context.Background(), fs, fs.Get(fileID), opts)
	return res, res.policyError(opts.Policy)
}

func (r *TokenizeResult) policyError(p Policy) error {
	if p != PolicyStrict || !r.Degraded {
		return nil
	}
	return fmt.Errorf("%s: %d %w span(s)", r.File.Path, len(r.Unterminated), ErrUnterminatedAttribute)
}

// tokenizeFile — общее ядро для Tokenize, TokenizeSource и TokenizeDir.
func tokenizeFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "tokenize_file", trace.ParentID(ctx)).
		With("path", file.Path)

	var timer *observ.Timer // nil: фазы не меряем
	if opts.Timings {
		timer = observ.NewTimer()
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &TokenizeResult{FileSet: fs, File: file, Bag: bag}

	var key Digest
	if opts.Cache != nil {
		key = cacheKey(file, opts)
		idx := timer.Begin("cache_lookup")
		var payload CachePayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.IOCacheError, source.Span{File: file.ID},
				"token cache read failed: "+err.Error()).Emit()
		case hit:
			if restored, ok := payload.restore(file); ok {
				res.Tokens, res.Unterminated = restored.tokens, restored.unterminated
				for _, d := range restored.diags {
					bag.Add(d)
				}
				res.Cached = true
			}
		}
		timer.End(idx, strconv.FormatBool(res.Cached))
	}

	if !res.Cached {
		idx := timer.Begin("tokenize")
		pre := bag.Len() // предупреждения кэша в запись не попадают
		out := lexer.Tokenize(file, lexer.Options{
			Reporter:   diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
			InlineHTML: opts.InlineHTML,
			Tracer:     tracer,
		})
		res.Tokens, res.Unterminated = out.Tokens, out.Unterminated
		timer.End(idx, fmt.Sprintf("%d tokens", len(out.Tokens)))

		if opts.Cache != nil {
			idx = timer.Begin("cache_store")
			if err := opts.Cache.Put(key, newCachePayload(res.Tokens, res.Unterminated, bag.Items()[pre:])); err != nil {
				diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.IOCacheError, source.Span{File: file.ID},
					"token cache write failed: "+err.Error()).Emit()
			}
			timer.End(idx, "")
		}
	}
	res.Degraded = len(res.Unterminated) > 0

	if timer != nil {
		report := timer.Report()
		appendTimingDiagnostic(bag, file.ID, timingPayload{
			Kind:    "tokenize",
			Path:    file.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}

	span.With("cached", strconv.FormatBool(res.Cached)).
		End(fmt.Sprintf("%d tokens, %d unterminated", len(res.Tokens), len(res.Unterminated)))
	return res
}
