package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, -1, 0}

	assert.Equal(t, Vector3{5, 1, 3}, a.Add(b))
	assert.Equal(t, Vector3{-3, 3, 3}, a.Sub(b))
}

func TestScaleDiv(t *testing.T) {
	a := Vector3{2, 4, 6}

	assert.Equal(t, Vector3{1, 2, 3}, a.Scale(0.5))
	assert.Equal(t, Vector3{1, 2, 3}, a.Div(2))
}

func TestNorm(t *testing.T) {
	a := Vector3{3, 4, 0}

	assert.Equal(t, 25.0, a.SquaredNorm())
	assert.Equal(t, 5.0, a.Norm())
}

func TestAnyLessThan(t *testing.T) {
	a := Vector3{1, 2, 3}

	assert.True(t, a.AnyLessThan(2))
	assert.False(t, a.AnyLessThan(1))
	assert.True(t, a.AnyLessEqual(1))
	assert.False(t, a.AnyLessEqual(0))
}
