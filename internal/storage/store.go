package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/attractor/internal/experiment"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SweepInfo struct {
	Param     string  `json:"param"`
	Amplitude float64 `json:"amplitude"`
	Cycles    float64 `json:"cycles"`
	Wave      string  `json:"wave"`
	Frames    int     `json:"frames"`
	FPS       int     `json:"fps"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Mode       string             `json:"mode"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Params     map[string]float64 `json:"params"`
	Points     int                `json:"points"`
	Iterations int                `json:"iterations"`
	Bins       int                `json:"bins"`
	Range      [4]float64         `json:"range"`
	Ceiling    string             `json:"ceiling"`
	Sweep      *SweepInfo         `json:"sweep,omitempty"`
	Output     string             `json:"output,omitempty"`
	Delivered  int                `json:"delivered"`
	Elapsed    float64            `json:"elapsed_seconds"`
	Status     string             `json:"status"`
	Error      string             `json:"error,omitempty"`
}

// FrameStats is one row of stats.csv.
type FrameStats struct {
	Frame     int
	Value     float64
	Points    int
	Binned    uint64
	Dropped   int
	MaxCount  uint32
	Coverage  float64
	Ceiling   float64
	ElapsedMS float64
}

var statsHeader = []string{"frame", "value", "points", "binned", "dropped", "max_count", "coverage", "ceiling", "elapsed_ms"}

// Begin creates the run directory and returns a recorder that appends a row
// to stats.csv for every frame it consumes.
func (s *Store) Begin(meta RunMetadata) (*Recorder, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%s_%s", meta.Kind, now.Format("20060102-150405"), uuid.New().String()[:8])
	meta.Timestamp = now
	meta.Status = "running"

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "stats.csv"))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(csvFile)
	if err := w.Write(statsHeader); err != nil {
		csvFile.Close()
		return nil, err
	}

	r := &Recorder{dir: runDir, meta: meta, file: csvFile, w: w, start: now}
	if err := r.writeMeta(); err != nil {
		csvFile.Close()
		return nil, err
	}
	return r, nil
}

// Recorder is an experiment.Sink that persists per-frame stats.
type Recorder struct {
	mu    sync.Mutex
	dir   string
	meta  RunMetadata
	file  *os.File
	w     *csv.Writer
	start time.Time
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) Consume(f *experiment.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	value := 0.0
	if r.meta.Sweep != nil {
		value, _ = f.Params.Get(r.meta.Sweep.Param)
	}
	st := f.Stats
	row := []string{
		strconv.Itoa(f.Index),
		strconv.FormatFloat(value, 'f', 6, 64),
		strconv.Itoa(st.Points),
		strconv.FormatUint(st.Binned, 10),
		strconv.Itoa(st.Dropped),
		strconv.FormatUint(uint64(st.MaxCount), 10),
		strconv.FormatFloat(st.Coverage, 'f', 6, 64),
		strconv.FormatFloat(st.Ceiling, 'f', 6, 64),
		strconv.FormatFloat(float64(f.Elapsed.Microseconds())/1000, 'f', 3, 64),
	}
	if err := r.w.Write(row); err != nil {
		return err
	}
	r.meta.Delivered++
	return nil
}

// Finish flushes the stats and writes the final metadata with runErr's status.
func (r *Recorder) Finish(runErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.w.Flush()
	flushErr := r.w.Error()
	closeErr := r.file.Close()

	r.meta.Elapsed = time.Since(r.start).Seconds()
	r.meta.Status = "ok"
	if runErr != nil {
		r.meta.Status = "failed"
		r.meta.Error = runErr.Error()
	}
	if err := r.writeMeta(); err != nil {
		return err
	}
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (r *Recorder) writeMeta() error {
	f, err := os.Create(filepath.Join(r.dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

// List returns every run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStats(runID string) ([]FrameStats, error) {
	csvPath := filepath.Join(s.baseDir, runID, "stats.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameStats{}, nil
	}

	stats := make([]FrameStats, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(statsHeader) {
			continue
		}
		var fs FrameStats
		var errs [9]error
		fs.Frame, errs[0] = strconv.Atoi(rec[0])
		fs.Value, errs[1] = strconv.ParseFloat(rec[1], 64)
		fs.Points, errs[2] = strconv.Atoi(rec[2])
		fs.Binned, errs[3] = strconv.ParseUint(rec[3], 10, 64)
		fs.Dropped, errs[4] = strconv.Atoi(rec[4])
		var mc uint64
		mc, errs[5] = strconv.ParseUint(rec[5], 10, 32)
		fs.MaxCount = uint32(mc)
		fs.Coverage, errs[6] = strconv.ParseFloat(rec[6], 64)
		fs.Ceiling, errs[7] = strconv.ParseFloat(rec[7], 64)
		fs.ElapsedMS, errs[8] = strconv.ParseFloat(rec[8], 64)
		if firstErr(errs[:]) != nil {
			continue
		}
		stats = append(stats, fs)
	}
	return stats, nil
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
