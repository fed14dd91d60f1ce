package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier(t *testing.T) {
	c := NewClassifier([]int64{100, 200})

	assert.True(t, c.IsAdmin(100))
	assert.True(t, c.IsAdmin(200))
	assert.False(t, c.IsAdmin(300))
	assert.False(t, c.IsAdmin(0))
}

func TestClassifierEmptyList(t *testing.T) {
	c := NewClassifier(nil)
	assert.False(t, c.IsAdmin(1))
}
