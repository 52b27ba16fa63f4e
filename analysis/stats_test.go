package analysis

import (
	"testing"

	"github.com/egyoss/insights-backend/model"
	"github.com/stretchr/testify/assert"
)

// TestCountByLanguage will test function CountByLanguage
func TestCountByLanguage(t *testing.T) {
	repos := []model.GithubRepository{
		{Repository: "r1", Language: strPtr("Python")},
		{Repository: "r2", Language: strPtr("Go")},
		{Repository: "r3", Language: strPtr("Python")},
		{Repository: "r4", Language: nil},
		{Repository: "r5", Language: strPtr("JavaScript")},
	}

	rows := CountByLanguage(repos)

	assert.Equal(t, []model.FeatureCount{
		{Feature: "Python", Count: 2},
		{Feature: "Go", Count: 1},
		{Feature: "JavaScript", Count: 1},
	}, rows)
}

// TestCountByCity will test function CountByCity
func TestCountByCity(t *testing.T) {
	repos := []model.GithubRepository{
		{Repository: "r1", City: strPtr("Cairo")},
		{Repository: "r2", City: strPtr("Alexandria")},
		{Repository: "r3", City: strPtr("Cairo")},
		{Repository: "r4", City: nil},
		{Repository: "r5", City: strPtr("")},
	}

	rows := CountByCity(repos)

	assert.Equal(t, []model.FeatureCount{
		{Feature: "Cairo", Count: 2},
		{Feature: "Alexandria", Count: 1},
	}, rows)
}

// TestCountByDatabase makes sure multi database repositories count once per database
func TestCountByDatabase(t *testing.T) {
	repos := []model.GithubRepository{
		{Repository: "r1", Databases: []string{"PostgreSQL", "Redis"}},
		{Repository: "r2", Databases: []string{"PostgreSQL"}},
		{Repository: "r3", Databases: nil},
	}

	rows := CountByDatabase(repos)

	assert.Equal(t, []model.FeatureCount{
		{Feature: "PostgreSQL", Count: 2},
		{Feature: "Redis", Count: 1},
	}, rows)
}

// TestCountByLanguageEmpty makes sure an empty dataset aggregates to an empty table
func TestCountByLanguageEmpty(t *testing.T) {
	assert.Empty(t, CountByLanguage(nil))
}
