package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hurricane-skill-backend/internal/skill"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(maxMessages int, ttl time.Duration) (*MemoryStore, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(maxMessages, ttl)
	s.now = clk.now
	return s, clk
}

func TestAttributesRoundTrip(t *testing.T) {
	s, _ := newTestStore(10, time.Minute)

	assert.False(t, s.Exists("s1"))
	assert.Equal(t, skill.Attributes{}, s.Attributes("s1"))

	s.SetAttributes("s1", skill.Attributes{Ocean: skill.OceanPacific})
	assert.True(t, s.Exists("s1"))
	assert.Equal(t, skill.OceanPacific, s.Attributes("s1").Ocean)

	s.Delete("s1")
	assert.False(t, s.Exists("s1"))
	assert.Equal(t, skill.Attributes{}, s.Attributes("s1"))
}

func TestTranscriptIsTrimmed(t *testing.T) {
	s, _ := newTestStore(3, 0)
	for i := 0; i < 5; i++ {
		s.Append("s1", Message{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}

	got := s.Get("s1")
	require.Len(t, got, 3)
	assert.Equal(t, "m2", got[0].Content)
	assert.Equal(t, "m4", got[2].Content)

	got[0].Content = "mutated"
	assert.Equal(t, "m2", s.Get("s1")[0].Content)
}

func TestExpiry(t *testing.T) {
	s, clk := newTestStore(10, time.Minute)
	s.SetAttributes("s1", skill.Attributes{Ocean: skill.OceanAtlantic})
	s.SetAttributes("s2", skill.Attributes{Ocean: skill.OceanPacific})

	clk.advance(30 * time.Second)
	s.Append("s2", Message{Role: "user", Content: "hi"})

	clk.advance(45 * time.Second)
	assert.False(t, s.Exists("s1"))
	assert.True(t, s.Exists("s2"))
	assert.Nil(t, s.Get("s1"))

	clk.advance(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())
}

func TestConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(5, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%4)
			s.Append(id, Message{Role: "user", Content: "x"})
			s.SetAttributes(id, skill.Attributes{Ocean: skill.OceanAtlantic})
			_ = s.Get(id)
			_ = s.Attributes(id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, s.Len())
}
