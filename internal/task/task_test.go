package task

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTask = `{
 "train": [
  {"input": [[1, 0], [0, 0]], "output": [[0, 0], [0, 1]]},
  {"input": [[2, 0], [0, 0]], "output": [[0, 0], [0, 2]]}
 ],
 "test": [
  {"input": [[3, 0], [0, 0]]}
 ]
}`

func TestDecode(t *testing.T) {
	tk, err := Decode(strings.NewReader(sampleTask), "sample")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(tk.Train) != 2 || len(tk.Test) != 1 {
		t.Fatalf("unexpected shape: %d train, %d test", len(tk.Train), len(tk.Test))
	}
	if tk.Train[0].Input.Get(0, 0) != 1 || tk.Train[0].Output.Get(1, 1) != 1 {
		t.Error("train pair cells wrong")
	}
	if tk.Test[0].Output != nil {
		t.Error("test output should be nil when absent")
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no training pairs", `{"train": [], "test": []}`},
		{"missing train output", `{"train": [{"input": [[1]]}], "test": []}`},
		{"ragged rows", `{"train": [{"input": [[1, 2], [3]], "output": [[1]]}], "test": []}`},
		{"color out of range", `{"train": [{"input": [[12]], "output": [[1]]}], "test": []}`},
		{"empty grid", `{"train": [{"input": [], "output": [[1]]}], "test": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.json), "bad"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	tk, err := Decode(strings.NewReader(sampleTask), "sample")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	var buf bytes.Buffer
	if err := tk.Encode(&buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	again, err := Decode(&buf, "sample")
	if err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}
	if !again.Train[1].Output.Equal(tk.Train[1].Output) {
		t.Error("train output changed across round trip")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sampleTask), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "b" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}
