package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyScore(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.8, SentimentPositive},
		{0.051, SentimentPositive},
		{0.05, SentimentNeutral}, // границы строгие
		{0.0, SentimentNeutral},
		{-0.05, SentimentNeutral},
		{-0.051, SentimentNegative},
		{-0.9, SentimentNegative},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyScore(c.score), "score %v", c.score)
	}
}

func TestEngagement(t *testing.T) {
	p := Post{Likes: 10, CommentsCount: 5, Shares: 2}

	assert.Equal(t, 17, p.Engagement())
}
