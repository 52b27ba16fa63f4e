package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/egyoss/insights-backend/analysis"
	"github.com/egyoss/insights-backend/charts"
	"github.com/egyoss/insights-backend/config"
	"github.com/egyoss/insights-backend/model"
	"github.com/egyoss/insights-backend/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

type APIController interface {
	GetRepositories(ctx *gin.Context)
	GetTopRepositories(ctx *gin.Context)
	GetLanguageStats(ctx *gin.Context)
	GetCityStats(ctx *gin.Context)
	GetDatabaseStats(ctx *gin.Context)
	GetLanguagesChart(ctx *gin.Context)
	GetCitiesChart(ctx *gin.Context)
	GetTopChart(ctx *gin.Context)
	GetHistogramsChart(ctx *gin.Context)
}

type apiController struct {
	githubService service.GithubService
	languageTable analysis.KeywordTable
	databaseTable analysis.KeywordTable
	config        config.Config
}

func NewAPIController(config config.Config, service service.GithubService, languageTable analysis.KeywordTable, databaseTable analysis.KeywordTable) APIController {
	return apiController{
		githubService: service,
		languageTable: languageTable,
		databaseTable: databaseTable,
		config:        config,
	}
}

func (s apiController) GetRepositories(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, repos)
}

func (s apiController) GetTopRepositories(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	ranking := rankingQuery(c)
	top, _, err := charts.TopRankedRepos(repos, ranking.Feature, ranking.Count, charts.BarOptions{})

	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, top)
}

func (s apiController) GetLanguageStats(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, analysis.CountByLanguage(repos))
}

func (s apiController) GetCityStats(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, analysis.CountByCity(repos))
}

func (s apiController) GetDatabaseStats(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, analysis.CountByDatabase(repos))
}

func (s apiController) GetLanguagesChart(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	p, err := charts.BarPlot(analysis.CountByLanguage(repos), "language", charts.BarOptions{})

	if err != nil {
		c.JSON(http.StatusInternalServerError, model.NewAPIError(err))
		return
	}

	s.writeChart(c, p, 12*vg.Inch, 5*vg.Inch)
}

func (s apiController) GetCitiesChart(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	p, err := charts.BarPlot(analysis.CountByCity(repos), "city", charts.BarOptions{})

	if err != nil {
		c.JSON(http.StatusInternalServerError, model.NewAPIError(err))
		return
	}

	s.writeChart(c, p, 12*vg.Inch, 5*vg.Inch)
}

func (s apiController) GetTopChart(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	ranking := rankingQuery(c)
	_, p, err := charts.TopRankedRepos(repos, ranking.Feature, ranking.Count, charts.BarOptions{})

	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewAPIError(err))
		return
	}

	s.writeChart(c, p, 15*vg.Inch, 6*vg.Inch)
}

func (s apiController) GetHistogramsChart(c *gin.Context) {
	repos, ok := s.fetchEnrichedRepositories(c)
	if !ok {
		return
	}

	columns := strings.Split(c.DefaultQuery("columns", "stars,forks,open_issues"), ",")

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)

	if err := charts.Histograms(repos, columns, charts.HistOptions{}, c.Writer); err != nil {
		log.WithError(err).Error("unable to render histograms chart")
	}
}

// fetchEnrichedRepositories binds the search filters, fetches the
// matching repositories and runs the analysis heuristics on each record
func (s apiController) fetchEnrichedRepositories(c *gin.Context) ([]model.GithubRepository, bool) {
	var searchQuery model.SearchQuery
	if err := c.ShouldBindQuery(&searchQuery); err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return nil, false
	}

	if len(s.languageTable) == 0 {
		c.JSON(http.StatusInternalServerError, model.NewAPIError(fmt.Errorf("KEYWORDS_UNAVAILABLE")))
		return nil, false
	}

	repos, err := s.githubService.FetchRepositoriesByLocation(c, searchQuery)

	if err != nil {
		c.JSON(http.StatusInternalServerError, model.NewAPIError(err))
		return nil, false
	}

	for i := range repos {
		repos[i].City = analysis.ExtractCity(repos[i].Location)

		// the API language wins when present, the keyword heuristic only
		// fills the gaps
		if repos[i].Language == nil {
			repos[i].Language = analysis.DetectLanguage(repos[i], s.languageTable)
		}

		repos[i].CICDTool = analysis.DetectCICDTool(repos[i].Filenames)
		repos[i].DocScore = analysis.DocScore(repos[i])
		repos[i].Databases = analysis.DetectDatabases(repos[i], s.databaseTable)
	}

	return repos, true
}

func (s apiController) writeChart(c *gin.Context, p *plot.Plot, width, height vg.Length) {
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)

	if err := charts.WritePNG(p, width, height, c.Writer); err != nil {
		log.WithError(err).Error("unable to render chart")
	}
}

func rankingQuery(c *gin.Context) model.RankingQuery {
	var ranking model.RankingQuery
	_ = c.ShouldBindQuery(&ranking)

	if ranking.Feature == "" {
		ranking.Feature = "stars"
	}

	if ranking.Count <= 0 {
		ranking.Count = 20
	}

	return ranking
}
