package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ballistics/internal/physics"
)

func testRun() (RunMetadata, []physics.Sample) {
	env := physics.DefaultEnvironment()
	p := physics.DefaultParams(env)
	p.InitialVelocity = 12
	meta := RunMetadata{
		Integrator: "semi-euler",
		Surface:    physics.SurfaceGrass,
		Dt:         env.Dt,
		Launch:     p,
		Metrics:    map[string]float64{"peak_speed": 12},
	}
	return meta, physics.Simulate(p, env)
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta, samples := testRun()
	runID, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "basketball_") {
		t.Errorf("unexpected run id %q", runID)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Launch.InitialVelocity != 12 {
		t.Errorf("expected launch velocity 12, got %v", got.Launch.InitialVelocity)
	}
	if got.Metrics["peak_speed"] != 12 {
		t.Errorf("expected peak_speed 12, got %v", got.Metrics["peak_speed"])
	}
	if got.Steps != len(samples) {
		t.Errorf("expected %d steps, got %d", len(samples), got.Steps)
	}

	loaded, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(loaded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(loaded))
	}
	last, want := loaded[len(loaded)-1], samples[len(samples)-1]
	if d := last.X - want.X; d > 1e-6 || d < -1e-6 {
		t.Errorf("range drifted through csv: %v vs %v", last.X, want.X)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list of missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
	if _, err := st.Latest(); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}

	meta, samples := testRun()
	first, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta.Launch.Material = "golf_ball"
	second, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected oldest first, got %s, %s", runs[0].ID, runs[1].ID)
	}

	latest, err := st.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second {
		t.Errorf("expected latest %s, got %s", second, latest.ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	meta, samples := testRun()
	runID, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "samples.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestStoreMissingAndInvalidRuns(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	for _, id := range []string{"", "..", "../etc", "a/b"} {
		if _, err := st.LoadSamples(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("id %q: expected ErrInvalidID, got %v", id, err)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	samples := []physics.Sample{
		{Time: 0, X: 0, Y: 1.5, VX: 3, VY: 4, Speed: 5},
		{Time: 0.01, X: 0.03, Y: 1.53, VX: 3, VY: 3.9019, Speed: 4.9218},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "time,x,y,vx,vy,speed\n") {
		t.Errorf("unexpected header in %q", buf.String())
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != samples[1] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,x,y,vx,vy,speed\n0,1,2,3,4,oops\n"))
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestExportJSON(t *testing.T) {
	meta, samples := testRun()

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, samples); err != nil {
		t.Fatal(err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Run.Surface != physics.SurfaceGrass || len(out.Samples) != len(samples) {
		t.Errorf("unexpected export %+v", out.Run)
	}
}
