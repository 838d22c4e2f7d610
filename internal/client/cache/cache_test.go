package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type profile struct{ Name string }

func TestCache_SetGetDeleteFlush(t *testing.T) {
	c := New(time.Minute)
	assert.True(t, c.Enabled())

	c.Set(ProfileKey, profile{Name: "alice"})
	c.Set(DescriptorKey("7"), 7)
	assert.Equal(t, 2, c.Len())

	p, ok := Lookup[profile](c, ProfileKey)
	assert.True(t, ok)
	assert.Equal(t, "alice", p.Name)

	_, ok = Lookup[string](c, ProfileKey)
	assert.False(t, ok, "wrong type is a miss")

	c.Delete(DescriptorKey("7"))
	_, ok = c.Get(DescriptorKey("7"))
	assert.False(t, ok)

	c.Flush()
	assert.Zero(t, c.Len())
}

func TestCache_Expires(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	for _, c := range []*Cache{New(0), New(-time.Second), nil} {
		c.Set("k", "v")
		_, ok := c.Get("k")
		assert.False(t, ok)
		c.Delete("k")
		c.Flush()
		assert.Zero(t, c.Len())
		assert.False(t, c.Enabled())
	}
}

func TestDescriptorKey(t *testing.T) {
	assert.Equal(t, "descriptor:42", DescriptorKey("42"))
}
