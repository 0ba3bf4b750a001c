package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	const goroutines = 32
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := km.Lock("auction-1")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()

	releaseA := km.Lock("auction-a")

	// A different key must not block while auction-a is held.
	done := make(chan struct{})
	go func() {
		releaseB := km.Lock("auction-b")
		releaseB()
		close(done)
	}()
	<-done

	releaseA()
}

func TestKeyedMutexCleansUpEntries(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := km.Lock("auction-1")
			release()
		}()
	}
	wg.Wait()

	km.mu.Lock()
	defer km.mu.Unlock()
	require.Empty(t, km.locks)
}

func TestKeyedMutexReacquireAfterRelease(t *testing.T) {
	km := newKeyedMutex()

	release := km.Lock("auction-1")
	release()

	release = km.Lock("auction-1")
	release()
}
