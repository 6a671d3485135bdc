package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotGetSet(t *testing.T) {
	slot := NewSlot("initial")
	assert.Equal(t, "initial", slot.Get())

	slot.Set("updated")
	assert.Equal(t, "updated", slot.Get())
}

func TestSlotSubscribeEmitsCurrentValue(t *testing.T) {
	slot := NewSlot(42)

	ch, unsubscribe := slot.Subscribe()
	defer unsubscribe()

	assert.Equal(t, 42, <-ch)
}

func TestSlotSubscriberSeesUpdates(t *testing.T) {
	slot := NewSlot(0)

	ch, unsubscribe := slot.Subscribe()
	defer unsubscribe()
	<-ch

	slot.Set(1)
	assert.Equal(t, 1, <-ch)
}

func TestSlotConflatesForSlowSubscribers(t *testing.T) {
	slot := NewSlot(0)

	ch, unsubscribe := slot.Subscribe()
	defer unsubscribe()

	slot.Set(1)
	slot.Set(2)
	slot.Set(3)

	// Only the latest value is pending
	assert.Equal(t, 3, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %v", v)
	default:
	}
}

func TestSlotDeliversSameValueReEmissions(t *testing.T) {
	slot := NewSlot("x")

	ch, unsubscribe := slot.Subscribe()
	defer unsubscribe()
	<-ch

	slot.Set("x")
	assert.Equal(t, "x", <-ch)
}

func TestSlotUnsubscribeClosesChannel(t *testing.T) {
	slot := NewSlot(0)

	ch, unsubscribe := slot.Subscribe()
	<-ch
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	// Unsubscribing twice is safe, and Set no longer delivers
	unsubscribe()
	slot.Set(1)
}

func TestGenerationRefusesStaleCommit(t *testing.T) {
	var gen generation

	first := gen.begin()
	second := gen.begin()

	var applied []string
	// The older claim lost the slot and must not write
	assert.False(t, gen.commit(first, func() { applied = append(applied, "first") }))
	assert.True(t, gen.commit(second, func() { applied = append(applied, "second") }))
	require.Equal(t, []string{"second"}, applied)

	// A committed token cannot be reused after a newer claim
	gen.begin()
	assert.False(t, gen.commit(second, func() { applied = append(applied, "again") }))
	assert.Len(t, applied, 1)
}

func TestGenerationGuardsSlotAgainstSupersededLoad(t *testing.T) {
	var gen generation
	slot := NewSlot("")

	// A slow load claims first, a fresh load claims later but lands first
	slowToken := gen.begin()
	freshToken := gen.begin()

	gen.commit(freshToken, func() { slot.Set("fresh") })
	gen.commit(slowToken, func() { slot.Set("stale") })

	assert.Equal(t, "fresh", slot.Get())
}
