package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAnimatorImmediateTransform(t *testing.T) {
	t.Parallel()
	a := NewAnimator()
	a.Apply(Transform{RotationY: 45, TiltX: 5, Lean: 1})

	require.False(t, a.Animating())
	require.Equal(t, 45.0, a.Current().RotationY)
	require.False(t, a.Advance(16*time.Millisecond))
}

func TestAnimatorEasesIntoSnap(t *testing.T) {
	t.Parallel()
	a := NewAnimator()
	a.Apply(Transform{RotationY: 120, TiltX: 8, Lean: 1.6})
	a.Apply(Transform{RotationY: 180, Animate: true, Duration: 400 * time.Millisecond})
	require.True(t, a.Animating())

	require.True(t, a.Advance(100*time.Millisecond))
	mid := a.Current()
	require.Greater(t, mid.RotationY, 120.0)
	require.Less(t, mid.RotationY, 180.0)
	require.InDelta(t, Lean(mid.TiltX), mid.Lean, 1e-12)

	require.True(t, a.Advance(200*time.Millisecond))
	require.GreaterOrEqual(t, a.Current().RotationY, mid.RotationY)

	require.False(t, a.Advance(200*time.Millisecond))
	require.Equal(t, 180.0, a.Current().RotationY)
	require.Equal(t, 0.0, a.Current().TiltX)
	require.False(t, a.Animating())
}
