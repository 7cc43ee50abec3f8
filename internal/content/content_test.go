package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSite(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Jorge_Reyes_Resume.pdf", s.Resume.DownloadName)
	require.Len(t, s.Sections, 3)

	var anchors []string
	for _, l := range s.Nav {
		anchors = append(anchors, l.Anchor)
	}
	assert.Equal(t, []string{"hero", "automation", "ai-projects", "games", "skills", "about", "contact"}, anchors)

	for _, id := range []string{"battery", "conveyor", "robot", "chatbot", "trivia", "analyzer", "tictactoe", "memory", "snake"} {
		_, ok := s.Project(id)
		assert.True(t, ok, id)
	}

	battery, _ := s.Project("battery")
	assert.Equal(t, "Battery Mixing Process Control", battery.Heading())
	snake, _ := s.Project("snake")
	assert.Equal(t, "AI Snake Game", snake.Heading())

	assert.Len(t, s.About.Timeline, 4)
	assert.Equal(t, "+90%", s.About.Stats[3].Value)
}

func TestParseRejectsBadContent(t *testing.T) {
	_, err := Parse([]byte("title: [unclosed"))
	assert.ErrorContains(t, err, "parse site content")

	_, err = Parse([]byte(`
resume: {download_name: cv.pdf}
sections:
  - anchor: games
    projects:
      - {id: snake}
      - {id: snake}
`))
	assert.ErrorContains(t, err, "duplicate project id")

	_, err = Parse([]byte(`
resume: {download_name: cv.pdf}
skills:
  categories:
    - title: X
      skills: [{name: Go, level: 120}]
`))
	assert.ErrorContains(t, err, "out of range")

	_, err = Parse([]byte(`title: x`))
	assert.ErrorContains(t, err, "download_name")
}
