package diskcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/saltfishpr/asynccache/cache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLevel(t *testing.T) *Level {
	t.Helper()
	l, err := New(t.TempDir())
	require.NoError(t, err)
	return l
}

// waitForSet polls until the background write for key is visible.
func waitForSet(t *testing.T, l *Level, key string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := l.Get(key).Get()
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

func TestLevel_MissingKey(t *testing.T) {
	l := newTestLevel(t)
	_, err := l.Get("absent").Get()
	assert.ErrorIs(t, err, cache.ErrValueNotFound)
}

func TestLevel_SetThenGet(t *testing.T) {
	l := newTestLevel(t)

	l.Set([]byte("payload"), "k")
	waitForSet(t, l, "k")

	val, err := l.Get("k").Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)
}

func TestLevel_KeysAreUnicodeNormalized(t *testing.T) {
	l := newTestLevel(t)

	// NFC and NFD spellings of the same word are canonically equivalent
	// and must share one entry.
	nfc := "caf\u00e9"
	nfd := "cafe\u0301"

	l.Set([]byte("v"), nfd)
	waitForSet(t, l, nfd)

	val, err := l.Get(nfc).Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

func TestLevel_Clear(t *testing.T) {
	l := newTestLevel(t)

	l.Set([]byte("a"), "ka")
	l.Set([]byte("b"), "kb")
	waitForSet(t, l, "ka")
	waitForSet(t, l, "kb")

	l.Clear()
	_, err := l.Get("ka").Get()
	assert.ErrorIs(t, err, cache.ErrValueNotFound)
	_, err = l.Get("kb").Get()
	assert.ErrorIs(t, err, cache.ErrValueNotFound)
}

func TestLevel_ComposesWithMemory(t *testing.T) {
	disk := newTestLevel(t)
	mem := cache.NewMemory[string, []byte](4)
	composed := cache.Compose[string, []byte](mem, disk)

	disk.Set([]byte("on disk"), "k")
	waitForSet(t, disk, "k")

	val, err := composed.Get("k").Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("on disk"), val)

	// The write-back promoted the value into the memory level.
	val, err = mem.Get("k").Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("on disk"), val)
}
