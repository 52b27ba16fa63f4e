package model

import "fmt"

type GithubRepository struct {
	ID          int64   `json:"-"` // ignored from json, only used to match enrichment results
	FullName    string  `json:"fullName"`
	Owner       string  `json:"owner"`
	Repository  string  `json:"repository"`
	HTMLURL     string  `json:"htmlUrl"`
	Description *string `json:"description,omitempty"` // nil when the repository has no description
	Topics      *string `json:"topics,omitempty"`      // comma separated list, nil when not provided by the API
	Licence     *string `json:"licence,omitempty"`     // licence can be nil for some repositories without licence
	Location    *string `json:"-"`                     // owner profile location, free text

	Stars      int `json:"stars"`
	Forks      int `json:"forks"`
	OpenIssues int `json:"openIssues"`

	// filled by the enrichment fan-out
	Filenames []string `json:"filenames,omitempty"`
	Readme    string   `json:"-"`

	// derived by the analysis package
	City      *string  `json:"city,omitempty"`
	Language  *string  `json:"language,omitempty"`
	CICDTool  string   `json:"cicdTool,omitempty"`
	DocScore  int      `json:"docScore"`
	Databases []string `json:"databases,omitempty"` // every database the heuristics found a signal for
}

// GithubRepositoryDetails carries the per repository data fetched by the
// enrichment fan-out before it is merged back into the records
type GithubRepositoryDetails struct {
	RepositoryID int64
	Filenames    []string
	Readme       string
	Location     *string
}

// FeatureCount is one row of an aggregated feature/count table
// column 0 is the grouping feature, column 1 is the metric
type FeatureCount struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

// MetricValue returns the numeric feature used to rank or bucket repositories
func (r GithubRepository) MetricValue(feature string) (float64, error) {
	switch feature {
	case "stars":
		return float64(r.Stars), nil
	case "forks":
		return float64(r.Forks), nil
	case "open_issues":
		return float64(r.OpenIssues), nil
	case "doc_score":
		return float64(r.DocScore), nil
	}

	return 0, fmt.Errorf("UNKNOWN_FEATURE")
}
