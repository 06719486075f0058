package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"attrlex/internal/diag"
	"attrlex/internal/source"
	"attrlex/internal/token"
	"attrlex/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path         string        // путь к файлу, как его нашёл ListFiles
	FileID       source.FileID // ID файла в FileSet (пустой виртуальный при ошибке загрузки)
	Tokens       []token.Token // Токены файла
	Unterminated []int
	Bag          *diag.Bag // Диагностики
	Degraded     bool
	Cached       bool
	LoadFailed   bool
}

// ListFiles возвращает отсортированный список файлов с подходящими расширениями.
// Расширения сравниваются без учёта регистра.
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// TokenizeDir токенизирует все подходящие файлы в директории параллельно.
// Ошибки загрузки отдельных файлов становятся диагностиками IOLoadFileError,
// а не ошибкой всего запуска. Под PolicyStrict возвращается объединённая ошибка
// по всем файлам с незакрытыми атрибутами, результаты при этом полные.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	dirSpan, ctx := trace.Start(ctx, trace.ScopeDriver, "tokenize_dir")
	dirSpan.With("dir", dir)

	files, err := ListFiles(dir, opts.extensions())
	if err != nil {
		dirSpan.End("list failed")
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		dirSpan.End("no files")
		return fileSet, nil, nil
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	// FileSet не потокобезопасен на запись: загружаем всё заранее
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.LoadWithEncoding(path, opts.encoding())
		if err != nil {
			// пустой виртуальный файл, чтобы диагностике было к чему привязаться
			loadErrors[path] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = fileID
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			start := time.Now()
			emit(opts.Progress, Event{File: path, Status: StatusWorking})

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError,
					source.Span{File: fileIDs[path]}, "failed to load file: "+loadErr.Error()))
				results[i] = TokenizeDirResult{Path: path, FileID: fileIDs[path], Bag: bag, LoadFailed: true}
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: loadErr, Elapsed: time.Since(start)})
				return nil
			}

			fileID := fileIDs[path]
			res := tokenizeFile(gctx, fileSet, fileSet.Get(fileID), opts)
			results[i] = TokenizeDirResult{
				Path:         path,
				FileID:       fileID,
				Tokens:       res.Tokens,
				Unterminated: res.Unterminated,
				Bag:          res.Bag,
				Degraded:     res.Degraded,
				Cached:       res.Cached,
			}

			status := StatusDone
			switch {
			case res.Bag.HasErrors():
				status = StatusError
			case res.Cached:
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		dirSpan.End("cancelled")
		return fileSet, results, err
	}

	var errs []error
	degraded := 0
	for _, r := range results {
		if !r.Degraded {
			continue
		}
		degraded++
		if opts.Policy == PolicyStrict {
			errs = append(errs, fmt.Errorf("%s: %d %w span(s)", r.Path, len(r.Unterminated), ErrUnterminatedAttribute))
		}
	}
	dirSpan.With("files", strconv.Itoa(len(files))).
		With("degraded", strconv.Itoa(degraded)).
		End("")
	return fileSet, results, errors.Join(errs...)
}
