package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l := newLoop()
	defer l.stop()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.post(func() { got = append(got, i) })
	}
	l.do(func() {})

	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_TasksPostedFromTasks(t *testing.T) {
	l := newLoop()
	defer l.stop()

	done := make(chan string, 2)
	l.post(func() {
		l.post(func() { done <- "inner" })
		done <- "outer"
	})

	assert.Equal(t, "outer", <-done)
	assert.Equal(t, "inner", <-done)
}

func TestLoop_StopDrainsThenRejects(t *testing.T) {
	l := newLoop()

	ran := 0
	for i := 0; i < 10; i++ {
		l.post(func() { ran++ })
	}
	l.stop()

	assert.Equal(t, 10, ran)
	assert.False(t, l.post(func() {}))
	assert.False(t, l.do(func() {}))
}
