package recolor

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const Pattern = "*.svg"

// ErrSameDir is returned when the output directory would overwrite the sources.
var ErrSameDir = errors.New("destination is the source directory")

// Icon is one source file, read once and never written back.
type Icon struct {
	Name    string
	Content string
}

func ReadIcon(fs afero.Fs, dir, name string) (Icon, error) {
	path := filepath.Join(dir, name)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Icon{}, &PathError{Op: "read", Path: path, Err: err}
	}
	return Icon{Name: name, Content: string(data)}, nil
}

type Status string

const (
	StatusConverted Status = "converted"
	StatusPlanned   Status = "planned"
	StatusFailed    Status = "failed"
)

type Config struct {
	Src       string
	Dst       string
	Fill      string
	StripAll  bool
	Jobs      int
	KeepGoing bool
	CreateDst bool
	DryRun    bool
}

func (c Config) Options() Options {
	return Options{Fill: c.Fill, StripAll: c.StripAll}
}

// WithDefaults fills in the source and destination directories.
// The destination defaults to the "night" directory inside the source.
func (c Config) WithDefaults() Config {
	if c.Src == "" {
		c.Src = "."
	}
	if c.Dst == "" {
		c.Dst = filepath.Join(c.Src, "night")
	}
	return c
}

type FileResult struct {
	Name    string `json:"name"`
	Src     string `json:"src"`
	Dst     string `json:"dst"`
	Status  Status `json:"status"`
	HadFill bool   `json:"had_fill"`
	Error   string `json:"error,omitempty"`
}

type Summary struct {
	Total     int `json:"total"`
	Converted int `json:"converted"`
	Planned   int `json:"planned"`
	Failed    int `json:"failed"`
}

type Report struct {
	RunID      string       `json:"run_id"`
	Src        string       `json:"src"`
	Dst        string       `json:"dst"`
	DryRun     bool         `json:"dry_run"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Items      []FileResult `json:"items"`
	Summary    Summary      `json:"summary"`
}

func (r *Report) finalize() {
	sort.Slice(r.Items, func(i, j int) bool { return r.Items[i].Name < r.Items[j].Name })
	s := Summary{Total: len(r.Items)}
	for _, it := range r.Items {
		switch it.Status {
		case StatusConverted:
			s.Converted++
		case StatusPlanned:
			s.Planned++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
	r.FinishedAt = time.Now().UTC()
}

// Observer receives progress events. Calls may come from several goroutines.
type Observer interface {
	OnStart(total int)
	OnFileDone(idx, total int, res FileResult)
}

type nopObserver struct{}

func (nopObserver) OnStart(int) {}
func (nopObserver) OnFileDone(int, int, FileResult) {}

// Scan lists the *.svg entries directly inside src, sorted by name.
// Directories are skipped, symlinks are kept.
func Scan(fs afero.Fs, src string) ([]string, error) {
	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return nil, &PathError{Op: "list", Path: src, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(Pattern, e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Convert rewrites src/name into dst/name. With dryRun nothing is written.
// The returned error is also recorded in the result.
func Convert(fs afero.Fs, src, dst, name string, opts Options, dryRun bool) (FileResult, error) {
	res := FileResult{
		Name: name,
		Src:  filepath.Join(src, name),
		Dst:  filepath.Join(dst, name),
	}

	icon, err := ReadIcon(fs, src, name)
	if err != nil {
		return res.fail(err)
	}

	res.HadFill = HasFill(icon.Content)
	out, _ := Transform(icon.Content, opts)

	if dryRun {
		res.Status = StatusPlanned
		return res, nil
	}

	if err := writeFileAtomic(fs, dst, name, []byte(out)); err != nil {
		return res.fail(&PathError{Op: "write", Path: res.Dst, Err: err})
	}
	res.Status = StatusConverted
	return res, nil
}

func (r FileResult) fail(err error) (FileResult, error) {
	r.Status = StatusFailed
	r.Error = err.Error()
	return r, err
}

// Run converts every icon in cfg.Src into cfg.Dst.
//
// Without KeepGoing the first failure cancels the batch and is returned.
// With KeepGoing every file is attempted and the failures are joined.
// The report is filled in either case.
func Run(ctx context.Context, fs afero.Fs, cfg Config, obs Observer) (Report, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	cfg = cfg.WithDefaults()

	rr := Report{
		RunID:     uuid.NewString(),
		Src:       cfg.Src,
		Dst:       cfg.Dst,
		DryRun:    cfg.DryRun,
		StartedAt: time.Now().UTC(),
		Items:     []FileResult{},
	}

	if samePath(cfg.Src, cfg.Dst) {
		rr.finalize()
		return rr, &PathError{Op: "open dst", Path: cfg.Dst, Err: ErrSameDir}
	}

	names, err := Scan(fs, cfg.Src)
	if err != nil {
		rr.finalize()
		return rr, err
	}
	if !cfg.DryRun {
		if err := ensureDir(fs, cfg.Dst, cfg.CreateDst); err != nil {
			rr.finalize()
			return rr, err
		}
	}

	obs.OnStart(len(names))

	var (
		mu    sync.Mutex
		done  int
		errs  []error
		total = len(names)
		opts  = cfg.Options()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampJobs(cfg.Jobs))

	for _, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, ferr := Convert(fs, cfg.Src, cfg.Dst, name, opts, cfg.DryRun)

			mu.Lock()
			done++
			idx := done
			rr.Items = append(rr.Items, res)
			mu.Unlock()

			obs.OnFileDone(idx, total, res)

			if ferr == nil {
				return nil
			}
			if cfg.KeepGoing {
				mu.Lock()
				errs = append(errs, ferr)
				mu.Unlock()
				return nil
			}
			return ferr
		})
	}

	err = g.Wait()
	if err == nil {
		err = errors.Join(errs...)
	}
	if err == nil {
		err = ctx.Err()
	}
	rr.finalize()
	return rr, err
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}

func clampJobs(n int) int {
	if n < 1 {
		return 1
	}
	if n > 32 {
		return 32
	}
	return n
}
