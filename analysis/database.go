package analysis

import (
	"strings"

	"github.com/egyoss/insights-backend/model"
)

// DetectDatabases reports every database of the table whose identifiers
// appear in the repository description, topics, primary language, readme
// or file listing. Unlike language detection all matches are collected, a
// project can rely on several databases at once. The result keeps the
// table order so the output is deterministic.
func DetectDatabases(repo model.GithubRepository, table KeywordTable) []string {
	// all text sources are folded into a single whitespace separated word
	// set, identifiers are matched against whole words only
	words := make(map[string]struct{})

	for _, source := range []*string{repo.Description, repo.Topics, repo.Language} {
		if source == nil {
			continue
		}

		for _, word := range strings.Fields(strings.ToLower(*source)) {
			words[word] = struct{}{}
		}
	}

	for _, word := range strings.Fields(strings.ToLower(repo.Readme)) {
		words[word] = struct{}{}
	}

	var detected []string

	for _, db := range table {
		if matchesDatabase(words, repo.Filenames, db.Identifiers) {
			detected = append(detected, db.Name)
		}
	}

	return detected
}

// matchesDatabase checks the word set first, then falls back to filename
// suffixes so configuration files like redis.conf or a .sqlite dump count
// as a signal
func matchesDatabase(words map[string]struct{}, filenames []string, identifiers []string) bool {
	for _, identifier := range identifiers {
		if _, found := words[identifier]; found {
			return true
		}

		for _, filename := range filenames {
			if strings.HasSuffix(strings.ToLower(filename), identifier) {
				return true
			}
		}
	}

	return false
}
