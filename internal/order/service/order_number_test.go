package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-[0-9A-F]{12}$`)

func TestNewOrderNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, orderNumberPattern, NewOrderNumber())
	}
}

func TestNewOrderNumber_NoImmediateCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := NewOrderNumber()
		assert.False(t, seen[n], "collision on %s", n)
		seen[n] = true
	}
}
