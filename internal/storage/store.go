package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/cardsort/internal/stats"
	"github.com/san-kum/cardsort/internal/trace"
)

// ErrRunNotFound indicates a run id with no stored metadata.
var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"step", "comparisons", "swaps", "operations", "completed", "keys"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string         `json:"id"`
	Algorithm   string         `json:"algorithm"`
	Timestamp   time.Time      `json:"timestamp"`
	Seed        int64          `json:"seed"`
	Size        int            `json:"size"`
	Order       string         `json:"order"`
	InitialKeys []int          `json:"initial_keys"`
	FinalKeys   []int          `json:"final_keys"`
	Stats       stats.Counters `json:"stats"`
	Completed   bool           `json:"completed"`
	Sorted      bool           `json:"sorted"`
	Source      string         `json:"source,omitempty"`
}

// Save writes meta and its frames under a new run directory and returns the run id.
// meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []trace.Frame) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Algorithm, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTrace(csvFile, frames); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteTrace writes frames as CSV, one row per step.
func WriteTrace(w io.Writer, frames []trace.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, f := range frames {
		keys := make([]string, len(f.Keys))
		for i, k := range f.Keys {
			keys[i] = strconv.Itoa(k)
		}
		row := []string{
			strconv.Itoa(f.Step),
			strconv.Itoa(f.Stats.Comparisons),
			strconv.Itoa(f.Stats.Swaps),
			strconv.Itoa(f.Stats.Operations),
			strconv.FormatBool(f.Completed),
			strings.Join(keys, " "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every stored run, oldest first. Unreadable entries are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// TracePath is where the CSV trace of runID lives.
func (s *Store) TracePath(runID string) string {
	return filepath.Join(s.baseDir, runID, traceFile)
}

func (s *Store) LoadTrace(runID string) ([]trace.Frame, error) {
	file, err := os.Open(s.TracePath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadTrace(file)
}

// ReadTrace parses the CSV written by WriteTrace. Malformed rows are skipped.
func ReadTrace(r io.Reader) ([]trace.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []trace.Frame{}, nil
	}

	frames := make([]trace.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(traceHeader) {
			continue
		}
		nums := make([]int, 4)
		ok := true
		for i := range nums {
			if nums[i], err = strconv.Atoi(record[i]); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		completed, _ := strconv.ParseBool(record[4])

		var keys []int
		for _, field := range strings.Fields(record[5]) {
			k, err := strconv.Atoi(field)
			if err != nil {
				continue
			}
			keys = append(keys, k)
		}

		frames = append(frames, trace.Frame{
			Step: nums[0],
			Stats: stats.Counters{
				Comparisons: nums[1],
				Swaps:       nums[2],
				Operations:  nums[3],
				Steps:       nums[0],
			},
			Completed: completed,
			Keys:      keys,
		})
	}
	return frames, nil
}
