// Package task loads pattern-reasoning tasks: a handful of demonstration
// input/output grid pairs plus held-out test inputs. The JSON layout matches
// the common puzzle-corpus format, cells as small color integers.
package task

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/r-ferrin/galaxia/internal/grid"
)

// Pair is one demonstrated transformation.
type Pair struct {
	Input  *grid.Grid
	Output *grid.Grid
}

// Task is a full puzzle: training demonstrations plus test cases. Test
// outputs may be absent (unsolved tasks) or present (for scoring).
type Task struct {
	ID    string
	Train []Pair
	Test  []Pair
}

type rawPair struct {
	Input  [][]int `json:"input"`
	Output [][]int `json:"output,omitempty"`
}

type rawTask struct {
	Train []rawPair `json:"train"`
	Test  []rawPair `json:"test"`
}

// Decode reads one task from JSON.
func Decode(r io.Reader, id string) (*Task, error) {
	var raw rawTask
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}

	t := &Task{ID: id}
	var err error
	if t.Train, err = convertPairs(raw.Train, true); err != nil {
		return nil, fmt.Errorf("task %s train: %w", id, err)
	}
	if t.Test, err = convertPairs(raw.Test, false); err != nil {
		return nil, fmt.Errorf("task %s test: %w", id, err)
	}
	if len(t.Train) == 0 {
		return nil, fmt.Errorf("task %s has no training pairs", id)
	}
	return t, nil
}

func convertPairs(raw []rawPair, requireOutput bool) ([]Pair, error) {
	pairs := make([]Pair, 0, len(raw))
	for i, rp := range raw {
		in, err := fromRows(rp.Input)
		if err != nil {
			return nil, fmt.Errorf("pair %d input: %w", i, err)
		}
		p := Pair{Input: in}

		if len(rp.Output) > 0 {
			if p.Output, err = fromRows(rp.Output); err != nil {
				return nil, fmt.Errorf("pair %d output: %w", i, err)
			}
		} else if requireOutput {
			return nil, fmt.Errorf("pair %d is missing its output", i)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func fromRows(rows [][]int) (*grid.Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	w := len(rows[0])
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("ragged row %d: %d cells, expected %d", y, len(row), w)
		}
		for x, c := range row {
			if c < 0 || c >= grid.NumColors {
				return nil, fmt.Errorf("cell (%d,%d) color %d out of range", x, y, c)
			}
		}
	}
	return grid.FromRows(rows), nil
}

// LoadFile reads a single task file; the task ID is the file stem.
func LoadFile(path string) (*Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Decode(f, id)
}

// LoadDir reads every .json task under dir, sorted by ID.
func LoadDir(dir string) ([]*Task, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var tasks []*Task
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		t, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Encode writes the task back out as JSON, preserving the corpus layout.
func (t *Task) Encode(w io.Writer) error {
	raw := rawTask{
		Train: toRawPairs(t.Train),
		Test:  toRawPairs(t.Test),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	return enc.Encode(raw)
}

func toRawPairs(pairs []Pair) []rawPair {
	raw := make([]rawPair, len(pairs))
	for i, p := range pairs {
		raw[i].Input = p.Input.Rows()
		if p.Output != nil {
			raw[i].Output = p.Output.Rows()
		}
	}
	return raw
}
