// Package snapshot compares values against JSON files kept in testdata
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateEnv rewrites every snapshot when it is set
const UpdateEnv = "CHIPSTACK_UPDATE_SNAPSHOTS"

var calls = struct {
	sync.Mutex
	counts map[string]int
}{counts: make(map[string]int)}

// Match compares obj to testdata/<test>-<n>.json, where n counts calls made by the test
// A missing snapshot is written and passes
func Match(t *testing.T, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()

	filename := nextFilename(t)
	actual, err := json.MarshalIndent(obj, "", "  ")
	require.NoError(t, err)

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || os.Getenv(UpdateEnv) != "" {
		require.NoError(t, write(filename, actual))
		return true
	}
	require.NoError(t, err)

	if !assert.JSONEq(t, string(expects), string(actual), msgAndArgs...) {
		t.Logf("snapshot %s, set %s=1 to update", filename, UpdateEnv)
		return false
	}

	return true
}

func nextFilename(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	calls.Lock()
	call := calls.counts[name]
	calls.counts[name] = call + 1
	calls.Unlock()

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", name, call))
}

func write(filename string, b []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(b, '\n'), 0644)
}
