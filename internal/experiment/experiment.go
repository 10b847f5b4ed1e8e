package experiment

import (
	"context"
	"io"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/field"
	"github.com/san-kum/attractor/internal/histogram"
	"github.com/san-kum/attractor/internal/maps"
	"github.com/san-kum/attractor/internal/sampler"
	"github.com/san-kum/attractor/internal/sweep"
)

// Stats summarises one frame.
type Stats struct {
	Points   int
	Binned   uint64
	Dropped  int
	MaxCount uint32
	Coverage float64
	Ceiling  float64
}

// Frame is the output of one sample, bin, compress pass.
type Frame struct {
	Index   int
	Params  dynamo.Params
	Density *histogram.Density
	Field   *field.Field
	Stats   Stats
	Elapsed time.Duration
}

type Experiment struct {
	cfg    Config
	logger *log.Logger
	table  *dynamo.TrigTable
}

type Option func(*Experiment)

func WithLogger(l *log.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

// New validates cfg and prepares an experiment.
func New(cfg Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Seeding = cfg.Seeding.Resolve(cfg.Kind)
	if cfg.Ceiling.Mode == "" {
		cfg.Ceiling.Mode = field.PerFrame
	}

	e := &Experiment{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	if cfg.FastTrig {
		e.table = dynamo.DefaultTrigTable
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Config() Config { return e.cfg }

// Frame computes frame index with params p. The uniform seed batch is drawn
// from a generator seeded with Seed+index.
func (e *Experiment) Frame(ctx context.Context, index int, p dynamo.Params) (*Frame, error) {
	return e.frame(ctx, index, p, dynamo.Workers(e.cfg.Workers))
}

// Render computes the still image: frame 0 with the base parameters.
func (e *Experiment) Render(ctx context.Context) (*Frame, error) {
	return e.Frame(ctx, 0, e.cfg.Params)
}

func (e *Experiment) frame(ctx context.Context, index int, p dynamo.Params, workers int) (*Frame, error) {
	start := time.Now()

	var opts []maps.Option
	if e.table != nil {
		opts = append(opts, maps.WithTrigTable(e.table))
	}
	m, err := maps.New(e.cfg.Kind, p, opts...)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(e.cfg.Seed + int64(index)))
	seeds := sampler.Seeds(e.cfg.Seeding, e.cfg.Points, e.cfg.SeedRange, rng)

	tr, err := sampler.Sample(ctx, m, seeds, e.cfg.Iterations, sampler.Options{Workers: workers, Frame: index})
	if err != nil {
		return nil, err
	}
	d, err := histogram.Bin(tr, e.cfg.Bins, e.cfg.Range, histogram.Options{Workers: workers})
	if err != nil {
		return nil, err
	}
	f := field.Compress(d, e.cfg.Ceiling)

	binned := d.Total()
	fr := &Frame{
		Index:   index,
		Params:  m.Params(),
		Density: d,
		Field:   f,
		Stats: Stats{
			Points:   tr.Len(),
			Binned:   binned,
			Dropped:  tr.Len() - int(binned),
			MaxCount: d.Max(),
			Coverage: float64(d.NonZero()) / float64(len(d.Counts)),
			Ceiling:  f.Max,
		},
		Elapsed: time.Since(start),
	}

	e.logger.Debug("frame", "index", index, "params", fr.Params.Map(e.cfg.Kind),
		"binned", binned, "dropped", fr.Stats.Dropped, "elapsed", fr.Elapsed)
	return fr, nil
}

// Sweep computes every frame of s on parallel workers and hands them to sink
// strictly in index order. At most twice the worker count of frames are held
// in memory at once. A sink error stops the sweep and is returned as a
// *dynamo.DeliveryError.
func (e *Experiment) Sweep(ctx context.Context, s sweep.Schedule, sink Sink) error {
	n := s.Len()
	if n == 0 {
		return &dynamo.ConfigError{Field: "sweep.frames", Value: n, Reason: "schedule is empty"}
	}
	if s.Kind != e.cfg.Kind {
		return &dynamo.ConfigError{Field: "sweep.kind", Value: s.Kind, Reason: "schedule kind differs from " + e.cfg.Kind.String()}
	}

	frameWorkers := dynamo.Workers(e.cfg.Workers)
	if frameWorkers > n {
		frameWorkers = n
	}
	inner := runtime.NumCPU() / frameWorkers
	if inner < 1 {
		inner = 1
	}
	window := 2 * frameWorkers

	start := time.Now()
	e.logger.Info("sweep started", "frames", n, "param", s.Param, "workers", frameWorkers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	tokens := make(chan struct{}, window)
	jobs := make(chan int)
	results := make(chan *Frame, window)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case tokens <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 0; w < frameWorkers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for i := range jobs {
				f, err := e.frame(gctx, i, s.At(i), inner)
				if err != nil {
					return err
				}
				select {
				case results <- f:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var deliverErr error
	pending := make(map[int]*Frame, window)
	next := 0
	for f := range results {
		if deliverErr != nil {
			continue
		}
		pending[f.Index] = f
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := sink.Consume(ready); err != nil {
				deliverErr = &dynamo.DeliveryError{Frame: next, Err: err}
				cancel()
				break
			}
			next++
			<-tokens
		}
	}

	err := g.Wait()
	switch {
	case deliverErr != nil:
		e.logger.Error("sweep stopped", "frame", next, "err", deliverErr)
		return deliverErr
	case err != nil:
		e.logger.Error("sweep failed", "delivered", next, "err", err)
		return err
	case next < n:
		return dynamo.Canceled(ctx.Err())
	}

	e.logger.Info("sweep finished", "frames", n, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
