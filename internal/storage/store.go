package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/r-ferrin/galaxia/internal/dynamics"
	"github.com/r-ferrin/galaxia/internal/particle"
)

// Store persists simulation runs, one directory per run: metadata.json,
// frame statistics as CSV, and the final population snapshot.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Neurons   int                `json:"neurons"`
	Photons   int                `json:"photons"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one finished run and returns its ID.
func (s *Store) Save(meta RunMetadata, history []dynamics.FrameStats, final []particle.NeuronState) (string, error) {
	runID := fmt.Sprintf("%s_%s", time.Now().Format("20060102T150405"), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Frames = len(history)

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, "frames.csv"), history); err != nil {
		return "", err
	}

	snapFile, err := os.Create(filepath.Join(runDir, "snapshot.txt"))
	if err != nil {
		return "", err
	}
	defer snapFile.Close()
	if err := particle.WriteSnapshot(snapFile, final); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(path string, history []dynamics.FrameStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"frame", "time", "mean_temperature", "mean_luminosity", "mean_connections", "active_photons"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, st := range history {
		row := []string{
			strconv.Itoa(st.Frame),
			strconv.FormatFloat(st.Time, 'f', 6, 64),
			strconv.FormatFloat(st.MeanTemperature, 'f', 6, 64),
			strconv.FormatFloat(st.MeanLuminosity, 'f', 6, 64),
			strconv.FormatFloat(st.MeanConnections, 'f', 6, 64),
			strconv.Itoa(st.ActivePhotons),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadHistory reads the per-frame statistics of a stored run.
func (s *Store) LoadHistory(runID string) ([]dynamics.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
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
		return []dynamics.FrameStats{}, nil
	}

	history := make([]dynamics.FrameStats, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		frame, _ := strconv.Atoi(rec[0])
		tm, _ := strconv.ParseFloat(rec[1], 64)
		temp, _ := strconv.ParseFloat(rec[2], 64)
		lum, _ := strconv.ParseFloat(rec[3], 64)
		conn, _ := strconv.ParseFloat(rec[4], 64)
		photons, _ := strconv.Atoi(rec[5])

		history = append(history, dynamics.FrameStats{
			Frame:           frame,
			Time:            tm,
			MeanTemperature: temp,
			MeanLuminosity:  lum,
			MeanConnections: conn,
			ActivePhotons:   photons,
		})
	}
	return history, nil
}

// LoadSnapshot reads the final population snapshot of a stored run.
func (s *Store) LoadSnapshot(runID string) ([]particle.NeuronState, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "snapshot.txt"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return particle.ReadSnapshot(file)
}
