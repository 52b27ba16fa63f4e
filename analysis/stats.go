package analysis

import (
	"sort"

	"github.com/egyoss/insights-backend/model"
)

// CountByLanguage folds repositories into a language/count table
func CountByLanguage(repos []model.GithubRepository) []model.FeatureCount {
	return countBy(repos, func(r model.GithubRepository) *string {
		return r.Language
	})
}

// CountByCity folds repositories into a city/count table
func CountByCity(repos []model.GithubRepository) []model.FeatureCount {
	return countBy(repos, func(r model.GithubRepository) *string {
		return r.City
	})
}

// CountByDatabase folds repositories into a database/count table, a
// repository using several databases counts once for each of them
func CountByDatabase(repos []model.GithubRepository) []model.FeatureCount {
	counts := make(map[string]int)

	for _, repo := range repos {
		for _, database := range repo.Databases {
			counts[database]++
		}
	}

	return sortedRows(counts)
}

// countBy aggregates repositories by the given key, repositories where
// the key is missing are not counted. Rows are sorted by count descending
// with the feature name as tiebreak to keep the output deterministic.
func countBy(repos []model.GithubRepository, key func(model.GithubRepository) *string) []model.FeatureCount {
	counts := make(map[string]int)

	for _, repo := range repos {
		if value := key(repo); value != nil && *value != "" {
			counts[*value]++
		}
	}

	return sortedRows(counts)
}

// sortedRows orders a count map by count descending with the feature name
// as tiebreak to keep the output deterministic
func sortedRows(counts map[string]int) []model.FeatureCount {
	rows := make([]model.FeatureCount, 0, len(counts))

	for feature, count := range counts {
		rows = append(rows, model.FeatureCount{Feature: feature, Count: count})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Feature < rows[j].Feature
	})

	return rows
}
