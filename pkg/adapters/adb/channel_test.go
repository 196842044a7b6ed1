package adb_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/adbpilot/pkg/adapters/adb"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeADB writes a shell script standing in for the adb binary.
func fakeADB(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake adb relies on /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "adb")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestChannel_Success(t *testing.T) {
	bin := fakeADB(t, `for a in "$@"; do echo "[$a]"; done`)
	ch := adb.NewChannel(adb.WithBinary(bin))

	res := ch.Run(context.Background(), `shell input text "hello%sworld"`)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "[shell]\n[input]\n[text]\n[hello%sworld]\n", res.Output)
	assert.Empty(t, res.Error)
}

func TestChannel_Serial(t *testing.T) {
	bin := fakeADB(t, `echo "$@"`)
	ch := adb.NewChannel(adb.WithBinary(bin), adb.WithSerial("emulator-5554"))

	res := ch.Run(context.Background(), "devices")

	require.True(t, res.Success)
	assert.Equal(t, "-s emulator-5554 devices", strings.TrimSpace(res.Output))
	assert.Equal(t, "emulator-5554", ch.Serial())
}

func TestChannel_NonZeroExit(t *testing.T) {
	bin := fakeADB(t, `echo partial; echo "error: device offline" >&2; exit 1`)
	ch := adb.NewChannel(adb.WithBinary(bin))

	res := ch.Run(context.Background(), "shell input tap 1 2")

	assert.False(t, res.Success)
	assert.Equal(t, "partial\n", res.Output)
	assert.Equal(t, "error: device offline\n", res.Error)
}

func TestChannel_NonZeroExitWithoutStderr(t *testing.T) {
	bin := fakeADB(t, `exit 3`)
	ch := adb.NewChannel(adb.WithBinary(bin))

	res := ch.Run(context.Background(), "devices")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "exit status 3")
}

func TestChannel_Timeout(t *testing.T) {
	bin := fakeADB(t, `sleep 5`)

	var events []*domain.CommandEvent
	ch := adb.NewChannel(
		adb.WithBinary(bin),
		adb.WithTimeout(200*time.Millisecond),
		adb.WithLifecycleHooks(domain.LifecycleHooks{
			OnCommand: func(ctx context.Context, e *domain.CommandEvent) { events = append(events, e) },
		}),
	)

	start := time.Now()
	res := ch.Run(context.Background(), "shell sleep 5")

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.False(t, res.Success)
	assert.Equal(t, "Command timed out", res.Error)
	require.Len(t, events, 1)
	assert.True(t, events[0].TimedOut)
	assert.Equal(t, "shell sleep 5", events[0].Command)
}

func TestChannel_MissingBinary(t *testing.T) {
	ch := adb.NewChannel(adb.WithBinary(filepath.Join(t.TempDir(), "does-not-exist")))

	res := ch.Run(context.Background(), "devices")

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestChannel_BadInput(t *testing.T) {
	ch := adb.NewChannel(adb.WithBinary("true"))

	res := ch.Run(context.Background(), "   ")
	assert.False(t, res.Success)
	assert.Equal(t, "empty command", res.Error)

	res = ch.Run(context.Background(), `shell input text "unterminated`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unterminated")
}
