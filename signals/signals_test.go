package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSignal_SetNotifies verifies subscribers observe the new value.
func TestSignal_SetNotifies(t *testing.T) {
	s := NewSignal("en-US")
	var seen []string
	s.Subscribe(func() { seen = append(seen, s.Get()) })

	s.Set("pt-BR")

	assert.Equal(t, "pt-BR", s.Get())
	assert.Equal(t, []string{"pt-BR"}, seen)
}

// TestSignal_UnsubscribeOutOfOrder verifies unsubscribing one subscriber
// does not detach another, whatever the order.
func TestSignal_UnsubscribeOutOfOrder(t *testing.T) {
	// Arrange
	s := NewSignal(0)
	var a, b, c int
	unA := s.Subscribe(func() { a++ })
	unB := s.Subscribe(func() { b++ })
	s.Subscribe(func() { c++ })

	// Act
	unA()
	unB()
	unA()
	s.Set(1)

	// Assert
	assert.Equal(t, 0, a)
	assert.Equal(t, 0, b)
	assert.Equal(t, 1, c)
}
