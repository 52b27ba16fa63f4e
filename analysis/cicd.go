package analysis

import "strings"

// NoCICD is reported when no known CI/CD file is found in a repository
const NoCICD = "No CI/CD"

// ordered, the first marker found in the file listing wins
var cicdTools = []struct {
	marker string
	tool   string
}{
	{".github/workflows/", "GitHub Actions"},
	{"circle.yml", "CircleCI"},
	{"travis.yml", "Travis CI"},
	{"jenkinsfile", "Jenkins"},
	{"gitlab-ci.yml", "GitLab CI"},
	{"azure-pipelines.yml", "Azure Pipelines"},
}

// DetectCICDTool names the CI/CD system a repository uses based on the
// presence of well known configuration files
func DetectCICDTool(filenames []string) string {
	for _, tool := range cicdTools {
		for _, filename := range filenames {
			lower := strings.ToLower(filename)

			if lower == tool.marker || strings.HasPrefix(lower, tool.marker) || strings.HasSuffix(lower, tool.marker) {
				return tool.tool
			}
		}
	}

	return NoCICD
}
