package sentinel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	vp := Span{Top: 100, Height: 200}

	assert.Equal(t, 1.0, Ratio(Span{Top: 150, Height: 20}, vp))
	assert.Equal(t, 0.5, Ratio(Span{Top: 90, Height: 20}, vp))
	assert.Equal(t, 0.25, Ratio(Span{Top: 295, Height: 20}, vp))
	assert.Equal(t, 0.0, Ratio(Span{Top: 300, Height: 20}, vp))
	assert.Equal(t, 0.0, Ratio(Span{Top: 0, Height: 100}, vp))

	assert.Equal(t, 1.0, Ratio(Span{Top: 100}, vp))
	assert.Equal(t, 0.0, Ratio(Span{Top: 300}, vp))
}

func TestEvaluateThreshold(t *testing.T) {
	o := NewObserver(0.5)
	top := Span{Top: 0, Height: 20}
	bottom := Span{Top: 500, Height: 20}

	var topHits, bottomHits int
	o.Observe("top", func() (Span, bool) { return top, true }, func() { topHits++ })
	o.Observe("bottom", func() (Span, bool) { return bottom, true }, func() { bottomHits++ })

	assert.Equal(t, []string{"top"}, o.Evaluate(Span{Top: 0, Height: 200}))
	assert.Nil(t, o.Evaluate(Span{Top: 11, Height: 200}))
	assert.Equal(t, []string{"top"}, o.Evaluate(Span{Top: 10, Height: 200}))
	assert.Equal(t, []string{"bottom"}, o.Evaluate(Span{Top: 330, Height: 200}))
	assert.Equal(t, 2, topHits)
	assert.Equal(t, 1, bottomHits)
}

func TestEvaluateIsLevelTriggered(t *testing.T) {
	o := NewObserver(DefaultThreshold)
	hits := 0
	o.Observe("bottom", func() (Span, bool) { return Span{Top: 40, Height: 20}, true }, func() { hits++ })

	vp := Span{Top: 0, Height: 100}
	for i := 0; i < 3; i++ {
		o.Evaluate(vp)
	}
	assert.Equal(t, 3, hits)
}

func TestBothSentinelsFireTogether(t *testing.T) {
	o := NewObserver(0.5)
	o.Observe("top", func() (Span, bool) { return Span{Top: 0, Height: 20}, true }, nil)
	o.Observe("bottom", func() (Span, bool) { return Span{Top: 60, Height: 20}, true }, nil)

	assert.Equal(t, []string{"top", "bottom"}, o.Evaluate(Span{Top: 0, Height: 400}))
}

func TestDisposeAndUnplacedTargets(t *testing.T) {
	o := NewObserver(2)
	require.Equal(t, DefaultThreshold, o.Threshold())

	placed := false
	hits := 0
	dispose := o.Observe("x", func() (Span, bool) { return Span{Top: 0, Height: 10}, placed }, func() { hits++ })
	require.Equal(t, 1, o.Len())

	o.Evaluate(Span{Top: 0, Height: 100})
	assert.Equal(t, 0, hits)

	placed = true
	o.Evaluate(Span{Top: 0, Height: 100})
	assert.Equal(t, 1, hits)

	dispose()
	dispose()
	require.Equal(t, 0, o.Len())
	o.Evaluate(Span{Top: 0, Height: 100})
	assert.Equal(t, 1, hits)
}
