package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/egyoss/insights-backend/analysis"
	"github.com/egyoss/insights-backend/config"
	"github.com/egyoss/insights-backend/model"
	"github.com/gin-gonic/gin"
	"github.com/remeh/sizedwaitgroup"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

// stubGithubService serves a fixed dataset instead of calling Github
type stubGithubService struct {
	repos []model.GithubRepository
	err   error
}

func (s stubGithubService) FetchRepositoriesByLocation(ctx *gin.Context, searchQuery model.SearchQuery) ([]model.GithubRepository, error) {
	return s.repos, s.err
}

func (s stubGithubService) FetchRepositoriesDetails(repos []model.GithubRepository) ([]model.GithubRepository, error) {
	return repos, nil
}

func (s stubGithubService) FetchDetailsForSingleRepository(r model.GithubRepository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.GithubRepositoryDetails) error {
	return nil
}

func (s stubGithubService) HandleRequestErrors(err error) error {
	return err
}

var testLanguageTable = analysis.KeywordTable{
	{Name: "Python", Identifiers: []string{"python", ".py"}},
	{Name: "Go", Identifiers: []string{"golang", ".go"}},
}

var testDatabaseTable = analysis.KeywordTable{
	{Name: "PostgreSQL", Identifiers: []string{"postgres", "postgresql"}},
	{Name: "Redis", Identifiers: []string{"redis", "redis.conf"}},
}

func testDataset() []model.GithubRepository {
	return []model.GithubRepository{
		{
			ID:          1,
			Repository:  "scraper",
			Description: strPtr("a python scraper"),
			Topics:      strPtr(""),
			Filenames:   []string{"scraper.py"},
			Location:    strPtr("Cairo, Egypt"),
			Stars:       50,
		},
		{
			ID:          2,
			Repository:  "api",
			Language:    strPtr("Go"),
			Description: strPtr("rest api backed by postgres"),
			Topics:      strPtr(""),
			Filenames:   []string{"main.go", ".github/workflows/ci.yml"},
			Location:    strPtr("Alexandria"),
			Stars:       120,
		},
		{
			ID:          3,
			Repository:  "notes",
			Description: strPtr("personal notes"),
			Topics:      strPtr(""),
			Filenames:   []string{"notes.txt"},
			Stars:       3,
		},
	}
}

func performRequest(t *testing.T, ctrl APIController, handler func(*gin.Context), url string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, url, nil)

	handler(ctx)
	return recorder
}

// TestGetRepositories makes sure records are enriched with the analysis heuristics
func TestGetRepositories(t *testing.T) {
	ctrl := NewAPIController(*config.GetDefault(), stubGithubService{repos: testDataset()}, testLanguageTable, testDatabaseTable)

	recorder := performRequest(t, ctrl, ctrl.GetRepositories, "/repos")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var repos []model.GithubRepository
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &repos))
	assert.Len(t, repos, 3)

	// language detected from the description keywords
	assert.Equal(t, strPtr("Python"), repos[0].Language)
	// API language untouched
	assert.Equal(t, strPtr("Go"), repos[1].Language)
	// nothing to detect
	assert.Nil(t, repos[2].Language)

	assert.Equal(t, strPtr("Cairo"), repos[0].City)
	assert.Equal(t, strPtr("Alexandria"), repos[1].City)
	assert.Nil(t, repos[2].City)

	assert.Equal(t, "GitHub Actions", repos[1].CICDTool)
	assert.Equal(t, analysis.NoCICD, repos[0].CICDTool)

	assert.Equal(t, []string{"PostgreSQL"}, repos[1].Databases)
	assert.Nil(t, repos[0].Databases)
}

// TestGetLanguageStats makes sure the language table aggregates correctly
func TestGetLanguageStats(t *testing.T) {
	ctrl := NewAPIController(*config.GetDefault(), stubGithubService{repos: testDataset()}, testLanguageTable, testDatabaseTable)

	recorder := performRequest(t, ctrl, ctrl.GetLanguageStats, "/stats/languages")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var rows []model.FeatureCount
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rows))

	assert.Equal(t, []model.FeatureCount{
		{Feature: "Go", Count: 1},
		{Feature: "Python", Count: 1},
	}, rows)
}

// TestGetDatabaseStats makes sure the database heuristics feed the aggregation
func TestGetDatabaseStats(t *testing.T) {
	ctrl := NewAPIController(*config.GetDefault(), stubGithubService{repos: testDataset()}, testLanguageTable, testDatabaseTable)

	recorder := performRequest(t, ctrl, ctrl.GetDatabaseStats, "/stats/databases")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var rows []model.FeatureCount
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rows))

	assert.Equal(t, []model.FeatureCount{
		{Feature: "PostgreSQL", Count: 1},
	}, rows)
}

// TestGetTopRepositories makes sure ranking defaults and errors are handled
func TestGetTopRepositories(t *testing.T) {
	ctrl := NewAPIController(*config.GetDefault(), stubGithubService{repos: testDataset()}, testLanguageTable, testDatabaseTable)

	recorder := performRequest(t, ctrl, ctrl.GetTopRepositories, "/repos/top?n=2")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var repos []model.GithubRepository
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &repos))
	assert.Len(t, repos, 2)
	assert.Equal(t, "api", repos[0].Repository)
	assert.Equal(t, "scraper", repos[1].Repository)

	recorder = performRequest(t, ctrl, ctrl.GetTopRepositories, "/repos/top?feature=commits")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var apiError model.APIError
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiError))
	assert.Equal(t, "UNKNOWN_FEATURE", apiError.Code)
}

// TestMissingLanguageTable makes sure handlers fail loudly without the keyword table
func TestMissingLanguageTable(t *testing.T) {
	ctrl := NewAPIController(*config.GetDefault(), stubGithubService{repos: testDataset()}, nil, testDatabaseTable)

	recorder := performRequest(t, ctrl, ctrl.GetRepositories, "/repos")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var apiError model.APIError
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiError))
	assert.Equal(t, "KEYWORDS_UNAVAILABLE", apiError.Code)
}

// TestGetLanguagesChart makes sure the chart endpoint streams a PNG image
func TestGetLanguagesChart(t *testing.T) {
	ctrl := NewAPIController(*config.GetDefault(), stubGithubService{repos: testDataset()}, testLanguageTable, testDatabaseTable)

	recorder := performRequest(t, ctrl, ctrl.GetLanguagesChart, "/charts/languages")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
	assert.True(t, recorder.Body.Len() > 0)
}
