package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/structure"
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

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Model           string             `json:"model"`
	Timestamp       time.Time          `json:"timestamp"`
	Strategy        string             `json:"strategy"`
	EvalPoints      int                `json:"eval_points"`
	NDof            int                `json:"ndof"`
	Nodes           int                `json:"nodes"`
	Elements        int                `json:"elements"`
	BucklingFactors []float64          `json:"buckling_factors,omitempty"`
	CriticalFactor  float64            `json:"critical_factor,omitempty"`
	Metrics         map[string]float64 `json:"metrics"`
}

const (
	metadataFile = "metadata.json"
	nodesFile    = "displacements.csv"
	forcesFile   = "forces.csv"
)

// Save writes metadata.json, displacements.csv and forces.csv into a new
// run directory and returns the run ID. meta.ID and meta.Timestamp are set
// here.
func (s *Store) Save(meta RunMetadata, result *Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Nodes = len(result.Nodes)
	meta.Elements = len(result.Elements)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeNodes(filepath.Join(runDir, nodesFile), result); err != nil {
		return "", err
	}
	if err := writeForces(filepath.Join(runDir, forcesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func writeNodes(path string, r *Result) error {
	header := []string{"node", "x", "y", "hinge", "dof_x", "dof_y", "dof_r", "ux", "uy", "rz"}
	rows := make([][]string, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		rows = append(rows, []string{
			strconv.Itoa(n.ID), format(n.X), format(n.Y), strconv.FormatBool(n.Hinge),
			strconv.Itoa(n.Dofs[0]), strconv.Itoa(n.Dofs[1]), strconv.Itoa(n.Dofs[2]),
			format(n.U[0]), format(n.U[1]), format(n.U[2]),
		})
	}
	return writeCSV(path, header, rows)
}

func writeForces(path string, r *Result) error {
	header := []string{"element", "kind", "x1", "y1", "x2", "y2", "station", "x", "normal", "shear", "moment"}
	var rows [][]string
	for _, e := range r.Elements {
		for i := range e.X {
			rows = append(rows, []string{
				strconv.Itoa(e.Index), e.Kind,
				format(e.From.X), format(e.From.Y), format(e.To.X), format(e.To.Y),
				strconv.Itoa(i), format(e.X[i]), format(e.N[i]), format(e.V[i]), format(e.M[i]),
			})
		}
	}
	return writeCSV(path, header, rows)
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// floats parses every field of rec, failing on the first bad one.
func floats(rec []string) ([]float64, error) {
	out := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// LoadResult rebuilds the nodes and sectional forces of a stored run.
func (s *Store) LoadResult(runID string) (*Result, error) {
	nodes, err := readCSV(filepath.Join(s.Dir(runID), nodesFile))
	if err != nil {
		return nil, err
	}
	forces, err := readCSV(filepath.Join(s.Dir(runID), forcesFile))
	if err != nil {
		return nil, err
	}

	r := &Result{}
	for _, rec := range nodes {
		if len(rec) != 10 {
			return nil, fmt.Errorf("%s: expected 10 fields, got %d", nodesFile, len(rec))
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, err
		}
		hinge, err := strconv.ParseBool(rec[3])
		if err != nil {
			return nil, err
		}
		v, err := floats(append(rec[1:3:3], rec[4:]...))
		if err != nil {
			return nil, err
		}
		r.Nodes = append(r.Nodes, NodeResult{
			ID: id, X: v[0], Y: v[1], Hinge: hinge,
			Dofs: [3]int{int(v[2]), int(v[3]), int(v[4])},
			U:    [3]float64{v[5], v[6], v[7]},
		})
	}

	for _, rec := range forces {
		if len(rec) != 11 {
			return nil, fmt.Errorf("%s: expected 11 fields, got %d", forcesFile, len(rec))
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, err
		}
		v, err := floats(rec[2:])
		if err != nil {
			return nil, err
		}
		if idx == len(r.Elements) {
			r.Elements = append(r.Elements, ElementResult{
				Index: idx,
				Kind:  rec[1],
				From:  structure.Point{X: v[0], Y: v[1]},
				To:    structure.Point{X: v[2], Y: v[3]},
			})
		}
		if idx != len(r.Elements)-1 {
			return nil, fmt.Errorf("%s: element %d out of order", forcesFile, idx)
		}
		e := &r.Elements[idx]
		e.X = append(e.X, v[5])
		e.N = append(e.N, v[6])
		e.V = append(e.V, v[7])
		e.M = append(e.M, v[8])
	}
	for _, e := range r.Elements {
		if _, err := element.ParseKind(e.Kind); err != nil {
			return nil, err
		}
	}
	return r, nil
}
