package testsupport

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files with the current output")

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}

// WriteGolden writes test output to a golden file, creating its directory.
func WriteGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual with the golden file at path. With
// -update the golden file is rewritten instead. A missing golden file fails
// the test.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	if *update {
		WriteGolden(t, path, actual)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file %s does not exist, run the test with -update to create it", path)
		}
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if line, ok := firstDiff(expected, actual); ok {
		t.Errorf("output mismatch for %s at line %d:\nExpected:\n%s\nActual:\n%s", path, line, expected, actual)
	}
}

// firstDiff returns the 1-based number of the first line that differs.
func firstDiff(expected, actual []byte) (int, bool) {
	if bytes.Equal(expected, actual) {
		return 0, false
	}

	want := bytes.Split(expected, []byte("\n"))
	got := bytes.Split(actual, []byte("\n"))
	for i := 0; i < len(want) && i < len(got); i++ {
		if !bytes.Equal(want[i], got[i]) {
			return i + 1, true
		}
	}
	return min(len(want), len(got)) + 1, true
}
