package docstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndOpen(t *testing.T) {
	store := NewLocal(t.TempDir() + "/pdf")

	name, err := store.Save(context.Background(), "КП_15102026101500.pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "КП_15102026101500.pdf", name)

	f, err := store.Open(name)
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(body))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	store := NewLocal(t.TempDir())

	for _, name := range []string{"", "../secret.pdf", "a/b.pdf", `a\b.pdf`, "..", ".env"} {
		_, err := store.Save(context.Background(), name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)

		_, err = store.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocal_OpenMissing(t *testing.T) {
	_, err := NewLocal(t.TempDir()).Open("missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_SaveNeverReplacesExistingDocument(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	_, err := store.Save(ctx, "КП_1.pdf", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = store.Save(ctx, "КП_1.pdf", strings.NewReader("second"))
	require.ErrorIs(t, err, ErrExists)

	f, err := store.Open("КП_1.pdf")
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "first", string(body))
}

func TestLocal_SaveConcurrentSameName(t *testing.T) {
	store := NewLocal(t.TempDir())

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		saved   int
		existed int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Save(context.Background(), "КП_2.pdf", strings.NewReader("x"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				saved++
			case errors.Is(err, ErrExists):
				existed++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, saved)
	assert.Equal(t, writers-1, existed)
}

func TestLocal_Remove(t *testing.T) {
	store := NewLocal(t.TempDir())

	_, err := store.Save(context.Background(), "КП_3.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.Remove("КП_3.pdf"))
	require.NoError(t, store.Remove("КП_3.pdf"))

	_, err = store.Open("КП_3.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Remove("../x"), ErrInvalidName)
}
