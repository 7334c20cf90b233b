package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalRWMutexTryLock(t *testing.T) {
	locking := &OptionalRWMutex{UseMutex: true}
	require.True(t, locking.TryLock())
	require.False(t, locking.TryLock())
	locking.Unlock()

	unlocked := &OptionalRWMutex{}
	require.True(t, unlocked.TryLock())
	require.True(t, unlocked.TryLock())
}

func TestOptionalMutexSerializes(t *testing.T) {
	mutex := NewOptionalMutex(true)
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mutex.Lock()
				counter++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1600, counter)
}
