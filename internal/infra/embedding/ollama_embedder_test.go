package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat32(t *testing.T) {
	out := toFloat32([][]float64{{0.5, -1.25}, {}})

	assert.Equal(t, [][]float32{{0.5, -1.25}, {}}, out)
}
