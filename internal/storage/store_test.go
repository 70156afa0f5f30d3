package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/cardsort/internal/stats"
	"github.com/san-kum/cardsort/internal/trace"
)

var sampleFrames = []trace.Frame{
	{Step: 0, Keys: []int{2, 1}},
	{Step: 1, Stats: stats.Counters{Comparisons: 1, Swaps: 1, Steps: 1}, Keys: []int{1, 2}},
	{Step: 2, Stats: stats.Counters{Comparisons: 1, Swaps: 1, Steps: 2}, Completed: true, Keys: []int{1, 2}},
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Algorithm:   "bubble",
		Seed:        42,
		Size:        2,
		Order:       "reverse",
		InitialKeys: []int{2, 1},
		FinalKeys:   []int{1, 2},
		Stats:       stats.Counters{Comparisons: 1, Swaps: 1, Steps: 2},
		Completed:   true,
		Sorted:      true,
	}

	runID, err := st.Save(meta, sampleFrames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "bubble_") {
		t.Errorf("unexpected run id %q", runID)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.ID != runID || got.Seed != 42 || got.Stats != meta.Stats {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	frames, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if diff := cmp.Diff(sampleFrames, frames); diff != "" {
		t.Errorf("trace round trip (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("List on empty store = %v, %v", runs, err)
	}

	first, _ := st.Save(RunMetadata{Algorithm: "insertion"}, nil)
	second, _ := st.Save(RunMetadata{Algorithm: "counting"}, nil)

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != first || runs[1].ID != second {
		t.Errorf("List = %+v", runs)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load error = %v, want ErrRunNotFound", err)
	}
	if _, err := st.LoadTrace("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadTrace error = %v, want ErrRunNotFound", err)
	}
}

func TestReadTraceSkipsMalformedRows(t *testing.T) {
	in := "step,comparisons,swaps,operations,completed,keys\n" +
		"0,0,0,0,false,3 1 2\n" +
		"x,0,0,0,false,3 1 2\n" +
		"1,0,0,1,false\n" +
		"1,0,0,1,true,1 2 3\n"
	frames, err := ReadTrace(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []trace.Frame{
		{Step: 0, Keys: []int{3, 1, 2}},
		{Step: 1, Stats: stats.Counters{Operations: 1, Steps: 1}, Completed: true, Keys: []int{1, 2, 3}},
	}
	if diff := cmp.Diff(want, frames); diff != "" {
		t.Errorf("ReadTrace (-want +got):\n%s", diff)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "merge_1", Algorithm: "merge"}
	if err := ExportJSON(&buf, meta, sampleFrames); err != nil {
		t.Fatal(err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ID != "merge_1" || len(decoded.Frames) != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}
