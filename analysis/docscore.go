package analysis

import (
	"path"
	"regexp"
	"strings"

	"github.com/egyoss/insights-backend/model"
)

var (
	contributingPattern    = regexp.MustCompile(`(?i)(?:contributing|contributions|contribution)`)
	runInstructionsPattern = regexp.MustCompile(`(?i)(?:run|start|install|use|get\s+started|quickstart|installation)`)
	tutorialPattern        = regexp.MustCompile(`(?i)(?:tutorial|example|tutorials|examples|usage|use\s+cases|applications)`)
)

// documentation files commonly found at the repository root
var docFilenames = map[string]struct{}{
	"doc": {}, "docs": {}, "documentation": {}, "documentations": {},
	"readme": {}, "readme.md": {}, "contributing.md": {}, "code_of_conduct.md": {},
	"changelog.md": {}, "changelog": {}, "install.md": {}, "license": {},
	"security.md": {}, "support.md": {}, "governance.md": {}, "faq.md": {},
	"styleguide.md": {}, "todo.md": {}, "authors": {}, "credits.md": {},
	"dco.md": {}, "pull_request_template.md": {},
}

// ReadmeScore checks a README body for common sections, one point each
// for contributing guidelines, how-to-run instructions and tutorials or
// examples. Result is between 0 and 3.
func ReadmeScore(content string) int {
	score := 0

	if contributingPattern.MatchString(content) {
		score++
	}

	if runInstructionsPattern.MatchString(content) {
		score++
	}

	if tutorialPattern.MatchString(content) {
		score++
	}

	return score
}

// DocScore rates the documentation of a repository between 0 and 8:
// one point for a description or topics, one point for documentation
// files, three points for dedicated API documentation and up to three
// points from the README sections.
func DocScore(repo model.GithubRepository) int {
	score := 0

	if (repo.Description != nil && *repo.Description != "") || (repo.Topics != nil && *repo.Topics != "") {
		score++
	}

	hasDocFiles := false
	hasAPIDoc := false

	for _, filename := range repo.Filenames {
		base := strings.ToLower(path.Base(filename))

		if _, found := docFilenames[base]; found {
			hasDocFiles = true
		}

		if base == "api.md" || strings.HasPrefix(filename, "docs/api") {
			hasAPIDoc = true
		}
	}

	if hasDocFiles {
		score++
	}

	if hasAPIDoc {
		score += 3
	}

	if hasDocFiles {
		score += ReadmeScore(repo.Readme)
	}

	return score
}
