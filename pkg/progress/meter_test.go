package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/synckit/pkg/progress"
)

func TestMeter_AutoNotifiesOnPercentChange(t *testing.T) {
	t.Parallel()

	var reports []int
	m := progress.NewMeter(100, func(percent int) {
		reports = append(reports, percent)
	})

	m.Increment()
	m.Notify(progress.Auto)
	assert.Equal(t, []int{1}, reports)

	for _, step := range []int{10, 10, 10} {
		m.IncrementBy(step)
		m.Notify(progress.Auto)
	}
	assert.Equal(t, []int{1, 11, 21, 31}, reports)
}

func TestMeter_AutoSkipsUnchangedPercent(t *testing.T) {
	t.Parallel()

	var calls int
	m := progress.NewMeter(1000, func(percent int) {
		calls++
	})

	// Five single steps out of a thousand stay below one percent.
	for range 5 {
		m.Increment()
		m.Notify(progress.Auto)
	}
	assert.Zero(t, calls)

	m.IncrementBy(5)
	m.Notify(progress.Auto)
	assert.Equal(t, 1, calls)
}

func TestMeter_ForceAlwaysNotifies(t *testing.T) {
	t.Parallel()

	var calls int
	m := progress.NewMeter(100, func(percent int) {
		calls++
	})

	m.Notify(progress.Force)
	m.Notify(progress.Force)
	assert.Equal(t, 2, calls)
}

func TestMeter_ClampsToTotal(t *testing.T) {
	t.Parallel()

	var last int
	m := progress.NewMeter(10, func(percent int) {
		last = percent
	})

	m.IncrementBy(25)
	m.Notify(progress.Auto)

	assert.Equal(t, 100, last)
	assert.Equal(t, 10, m.Current())
}

func TestMeter_FullRun(t *testing.T) {
	t.Parallel()

	var last int
	m := progress.NewMeter(100, func(percent int) {
		last = percent
	})

	for range 100 {
		m.Increment()
		m.Notify(progress.Auto)
	}
	assert.Equal(t, 100, last)
}

func TestMeter_Reset(t *testing.T) {
	t.Parallel()

	var reports []uint64
	m := progress.NewMeter(uint64(4), func(percent uint64) {
		reports = append(reports, percent)
	})

	m.IncrementBy(2)
	m.Notify(progress.Auto)
	m.Reset()
	m.Increment()
	m.Notify(progress.Auto)

	assert.Equal(t, []uint64{50, 25}, reports)
	assert.Equal(t, uint64(1), m.Current())
}

func TestMeter_GuardsInvalidTotal(t *testing.T) {
	t.Parallel()

	var last int
	m := progress.NewMeter(0, func(percent int) {
		last = percent
	})

	m.Increment()
	m.Notify(progress.Auto)
	assert.Equal(t, 100, last)

	m.SetTotal(-5)
	m.Notify(progress.Force)
	assert.Equal(t, 100, last)
}

func TestMeter_SmallIntegerTypes(t *testing.T) {
	t.Parallel()

	// current*100 exceeds the uint8 range; the percent must still be exact.
	var last uint8
	m := progress.NewMeter(uint8(200), func(percent uint8) {
		last = percent
	})

	m.IncrementBy(150)
	m.Notify(progress.Auto)
	assert.Equal(t, uint8(75), last)

	m.IncrementBy(50)
	m.Notify(progress.Auto)
	assert.Equal(t, uint8(100), last)
}

func TestMeter_NilCallback(t *testing.T) {
	t.Parallel()

	m := progress.NewMeter[int](10, nil)
	m.Increment()

	assert.NotPanics(t, func() { m.Notify(progress.Auto) })

	var got int
	m.SetCallback(func(percent int) { got = percent })
	m.Increment()
	m.Notify(progress.Auto)
	assert.Equal(t, 20, got)
}
