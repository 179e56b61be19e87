package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToastDedupesRepeatedMessage(t *testing.T) {
	m := NewToasts()
	m.Add("Maya is still thinking…", ToastWarning)
	m.Add("Maya is still thinking…", ToastWarning)
	assert.Len(t, m.queue, 1)

	m.Add("Signed out", ToastInfo)
	assert.Len(t, m.queue, 2)
}

func TestToastQueueCapped(t *testing.T) {
	m := NewToasts()
	m.Add("one", ToastInfo)
	m.Add("two", ToastInfo)
	m.Add("three", ToastInfo)
	m.Add("four", ToastInfo)
	assert.Len(t, m.queue, maxToasts)
	assert.Equal(t, "four", m.queue[maxToasts-1].message)

	assert.True(t, m.HasToasts())
	assert.Contains(t, m.View(80), "four")
}
