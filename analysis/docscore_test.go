package analysis

import (
	"testing"

	"github.com/egyoss/insights-backend/model"
	"github.com/stretchr/testify/assert"
)

// TestReadmeScore will test function ReadmeScore
func TestReadmeScore(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{
			name:     "Empty readme",
			content:  "",
			expected: 0,
		},
		{
			name:     "Only contributing guidelines",
			content:  "# Contributing\nOpen a pull request.",
			expected: 1,
		},
		{
			name:     "Install instructions and examples",
			content:  "## Installation\npip install tool\n## Examples\nSee below.",
			expected: 2,
		},
		{
			name:     "All sections present",
			content:  "# Usage\n## Quickstart\n### Contribution guide",
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReadmeScore(tt.content))
		})
	}
}

// TestDocScore will test function DocScore
func TestDocScore(t *testing.T) {
	tests := []struct {
		name     string
		repo     model.GithubRepository
		expected int
	}{
		{
			name:     "Nothing documented",
			repo:     model.GithubRepository{},
			expected: 0,
		},
		{
			name: "Description only",
			repo: model.GithubRepository{
				Description: strPtr("a small tool"),
			},
			expected: 1,
		},
		{
			name: "Everything documented",
			repo: model.GithubRepository{
				Description: strPtr("a small tool"),
				Filenames:   []string{"README.md", "docs/api.md"},
				Readme:      "## Installation\n## Examples\n## Contributing",
			},
			expected: 8,
		},
		{
			name: "Readme sections only count when doc files exist",
			repo: model.GithubRepository{
				Readme: "## Installation\n## Examples\n## Contributing",
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocScore(tt.repo))
		})
	}
}
