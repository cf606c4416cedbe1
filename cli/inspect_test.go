package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRunInspectLen_PrintsZeroForFreshStore(t *testing.T) {
	out := captureStdout(t, func() {
		err := runInspectLen(nil, nil)
		require.NoError(t, err)
	})

	assert.Equal(t, "0\n", out)
}

func TestRunInspectTip_PrintsHexHash(t *testing.T) {
	out := captureStdout(t, func() {
		err := runInspectTip(nil, nil)
		require.NoError(t, err)
	})

	assert.Len(t, bytes.TrimSpace([]byte(out)), 64)
}

func TestRunInspectLogic_PrintsHexHash(t *testing.T) {
	out := captureStdout(t, func() {
		err := runInspectLogic(nil, nil)
		require.NoError(t, err)
	})

	assert.Len(t, bytes.TrimSpace([]byte(out)), 64)
}
