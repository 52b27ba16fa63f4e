package analysis

import (
	"strings"

	"github.com/egyoss/insights-backend/model"
)

// DetectLanguage infers a language for a repository from its description,
// topics and filenames. The first language of the table with a matching
// identifier wins, there is no scoring across languages. Returns nil when
// any of the three fields is missing or when nothing matches.
func DetectLanguage(repo model.GithubRepository, table KeywordTable) *string {
	if repo.Description == nil || repo.Topics == nil || repo.Filenames == nil {
		return nil
	}

	// candidate word set: description split on whitespace, topics split on
	// commas only so a multi word topic stays a single token
	words := make(map[string]struct{})

	for _, word := range strings.Fields(strings.ToLower(*repo.Description)) {
		words[word] = struct{}{}
	}

	for _, topic := range strings.Split(strings.ToLower(*repo.Topics), ",") {
		words[topic] = struct{}{}
	}

	for _, lang := range table {
		for _, identifier := range lang.Identifiers {
			if _, found := words[identifier]; found {
				name := lang.Name
				return &name
			}
		}

		for _, filename := range repo.Filenames {
			for _, identifier := range lang.Identifiers {
				if strings.HasSuffix(filename, identifier) {
					name := lang.Name
					return &name
				}
			}
		}
	}

	return nil
}
