package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestWarmthBands(t *testing.T) {
	cases := []struct {
		temp  int
		level int
	}{
		{40, 1}, {28, 1}, {27, 2}, {20, 2}, {19, 3}, {12, 3},
		{11, 4}, {5, 4}, {4, 5}, {-20, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, SuggestWarmth(c.temp).Level, "temp %d", c.temp)
	}
}

func TestSuggestWarmthAlwaysInRange(t *testing.T) {
	for temp := -40; temp <= 50; temp++ {
		s := SuggestWarmth(temp)
		assert.GreaterOrEqual(t, s.Level, 1)
		assert.LessOrEqual(t, s.Level, 5)
		assert.NotEmpty(t, s.Text)
	}
}

func TestSuggestWarmthHotDay(t *testing.T) {
	s := SuggestWarmth(30)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, "今天很热，穿轻薄透气的衣服", s.Text)
}
