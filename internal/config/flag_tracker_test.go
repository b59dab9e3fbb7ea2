package config

import (
	"sync"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagTracker_Basic(t *testing.T) {
	ft := NewFlagTracker()

	assert.False(t, ft.WasSet("samples"))

	ft.Set("samples")
	assert.True(t, ft.WasSet("samples"))
	assert.Equal(t, []string{"samples"}, ft.Names())
}

func TestFlagTracker_WithInitialFlags(t *testing.T) {
	initial := map[string]bool{"threshold": true, "seed": false}
	ft := NewFlagTrackerWithFlags(initial)

	assert.True(t, ft.WasSet("threshold"))
	assert.False(t, ft.WasSet("seed"))
	assert.False(t, ft.WasSet("mode"))

	initial["mode"] = true
	assert.False(t, ft.WasSet("mode"), "tracker must not share the caller's map")
}

func TestFlagTracker_FromFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("match", pflag.ContinueOnError)
	fs.Float64("threshold", 0.5, "")
	fs.Int("samples", 3, "")
	fs.String("mode", "authors", "")

	require.NoError(t, fs.Parse([]string{"--samples", "10", "--mode=texts"}))

	ft := NewFlagTrackerFromFlagSet(fs)
	assert.True(t, ft.WasSet("samples"))
	assert.True(t, ft.WasSet("mode"))
	assert.False(t, ft.WasSet("threshold"))
	assert.Equal(t, []string{"mode", "samples"}, ft.Names())

	assert.Empty(t, NewFlagTrackerFromFlagSet(nil).Names())
}

func TestFlagTracker_NilTracker(t *testing.T) {
	var ft *FlagTracker
	assert.False(t, ft.WasSet("samples"))
	assert.Nil(t, ft.Names())
	assert.Equal(t, 3, Pick(ft, "samples", 3, 10))
}

func TestFlagTracker_ConcurrentReadWrite(t *testing.T) {
	ft := NewFlagTracker()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if j%2 == 0 {
					ft.Set("even")
				} else {
					ft.Set("odd")
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = ft.WasSet("even")
				_ = ft.Names()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, []string{"even", "odd"}, ft.Names())
}

func TestPick(t *testing.T) {
	ft := NewFlagTracker()
	ft.Set("explicit")

	assert.Equal(t, "override", Pick(ft, "explicit", "base", "override"))
	assert.Equal(t, "base", Pick(ft, "notset", "base", "override"))

	assert.Equal(t, 20, Pick(ft, "explicit", 10, 20))
	assert.Equal(t, uint64(0), Pick(ft, "notset", uint64(0), uint64(7)))

	// An explicit false still overrides a true base
	assert.False(t, Pick(ft, "explicit", true, false))
	assert.Equal(t, 1.5, Pick(ft, "notset", 1.5, 2.5))
}

func BenchmarkFlagTracker_WasSet(b *testing.B) {
	ft := NewFlagTracker()
	ft.Set("flag1")
	ft.Set("flag2")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = ft.WasSet("flag2")
		}
	})
}
