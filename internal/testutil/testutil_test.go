package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetupDatasetDir(t *testing.T) {
	dir := SetupDatasetDir(t, map[string]string{
		"a.yaml":        "[3, 1, 2]\n",
		"nested/b.yaml": "values: [9]\n",
	})

	for name, want := range map[string]string{
		"a.yaml":        "[3, 1, 2]\n",
		"nested/b.yaml": "values: [9]\n",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}
}

func TestSyncBuffer(t *testing.T) {
	var b SyncBuffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_, _ = b.Write([]byte("x\n"))
		}
	}()
	WaitFor(t, time.Second, func() bool { return b.Count("x") == 100 })
	<-done
}
