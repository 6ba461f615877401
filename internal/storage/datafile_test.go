package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type testRecord struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestDataFile_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	f := NewDataFile(dir, "Record")

	testutil.AssertEqual(t, "path", f.Path(), filepath.Join(dir, "Record.json"))
	_, err := os.Stat(f.Path())
	testutil.AssertEqual(t, "missing before", errors.Is(err, os.ErrNotExist), true)

	err = f.WriteObject(&testRecord{Name: "first", Value: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got testRecord
	err = f.ReadObject(&got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "record", got, testRecord{Name: "first", Value: 1})

	_, err = os.Stat(f.Path() + ".tmp")
	testutil.AssertEqual(t, "temp file removed", errors.Is(err, os.ErrNotExist), true)
}

func TestDataFile_ReadObject(t *testing.T) {
	tests := map[string]struct {
		content *string
		expErr  string
		expNone bool
	}{
		"missing file": {
			expNone: true,
		},
		"invalid json": {
			content: ptr("{invalid"),
			expErr:  "unmarshalling Record.json",
		},
		"wrong shape": {
			content: ptr(`[1,2,3]`),
			expErr:  "unmarshalling Record.json",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			f := NewDataFile(dir, "Record")
			if tt.content != nil {
				err := os.WriteFile(f.Path(), []byte(*tt.content), 0644)
				if err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			var got testRecord
			err := f.ReadObject(&got)
			if tt.expNone {
				testutil.AssertEqual(t, "no data", errors.Is(err, ErrNoData), true)
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestDataFile_WriteOverwrites(t *testing.T) {
	f := NewDataFile(t.TempDir(), "Record")

	if err := f.WriteObject(&testRecord{Name: "a", Value: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.WriteObject(&testRecord{Name: "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got testRecord
	if err := f.ReadObject(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "record", got, testRecord{Name: "b"})
}

func ptr[T any](v T) *T {
	return &v
}
