package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/egyoss/insights-backend/config"
	"github.com/egyoss/insights-backend/model"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"golang.org/x/time/rate"
)

type GithubService interface {
	FetchRepositoriesByLocation(ctx *gin.Context, searchQuery model.SearchQuery) ([]model.GithubRepository, error)
	FetchRepositoriesDetails(repos []model.GithubRepository) ([]model.GithubRepository, error)
	FetchDetailsForSingleRepository(r model.GithubRepository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.GithubRepositoryDetails) error

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// directories ignored while walking a repository tree: static assets,
// build artifacts and third-party code say nothing about the project
var skippedDirectories = map[string]struct{}{
	"images": {}, "imgs": {}, "img": {}, "figures": {}, "figure": {}, "figs": {},
	"assets": {}, "asset": {}, "__pycache__": {}, "log": {}, "logs": {}, ".git": {},
	"3rdparty": {}, "bin": {}, "buildfiles": {}, "darwin": {},
}

// we have two github request types with different rate limits
// the search limit is higher, so the local limiter tracks the core quota
// used by the contents and readme calls of the enrichment fan-out
// core rate limit = 60 calls per hour for non-authenticated and 5000 calls for authenticated
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

func (s githubService) FetchRepositoriesByLocation(c *gin.Context, searchQuery model.SearchQuery) ([]model.GithubRepository, error) {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return []model.GithubRepository{}, fmt.Errorf("RATE_LIMIT_REACHED")
	}

	// every search is scoped to the configured location unless the caller
	// asked for another one
	if searchQuery.Location == "" {
		searchQuery.Location = s.config.Github.Location
	}

	log.WithFields(log.Fields{
		"owner":    searchQuery.Owner,
		"licence":  searchQuery.License,
		"language": searchQuery.Language,
		"location": searchQuery.Location,
	}).Info("fetch repositories from github with filters")

	// search repositories that match the query filters
	// using this we can limit the number of results directly using Github search API
	// this will limit the number of loops required to filter afterwards
	repos, _, err := s.githubClient.Search.Repositories(
		context.Background(),
		searchQuery.ToGithubQuery(true),
		&github.SearchOptions{
			Sort:  "created",
			Order: "desc",
			ListOptions: github.ListOptions{
				Page:    1,
				PerPage: s.config.Github.PerPage,
			},
		},
	)

	if err != nil {
		return []model.GithubRepository{}, fmt.Errorf("FETCH_ERROR")
	}

	// build output format for each repo
	repositoriesAggregated := make([]model.GithubRepository, 0)

	for _, r := range repos.Repositories {

		if r == nil || r.FullName == nil || r.Owner == nil || r.Owner.Login == nil || r.Name == nil {
			log.WithFields(log.Fields{
				"repositoryID": r.ID,
			}).Debug("repository found with invalid information. skipped")

			return []model.GithubRepository{}, fmt.Errorf("INVALID_DATA_FOUND")
		}

		// topics are always joined into a single comma separated string,
		// an absent list becomes the empty string like the rest of the dataset
		topics := strings.Join(r.Topics, ", ")

		repositoryAggregated := model.GithubRepository{
			ID:          *r.ID,
			FullName:    *r.FullName,
			Owner:       *r.Owner.Login,
			Repository:  *r.Name,
			HTMLURL:     r.GetHTMLURL(),
			Description: r.Description,
			Topics:      &topics,
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			OpenIssues:  r.GetOpenIssuesCount(),
			Language:    normalizeLanguage(r.Language),
		}

		// extract licence info
		// licence can be null or empty for some repositories
		if r.License != nil {
			repositoryAggregated.Licence = r.License.Key
		}

		repositoriesAggregated = append(repositoriesAggregated, repositoryAggregated)
	}

	// rate limit check: each repository needs at least one contents
	// listing, one readme call and one owner profile call, consume that
	// floor up front so we never start a fan-out we cannot finish. The
	// directory walk takes one extra token per subdirectory as it goes.
	if !s.githubRateLimiter.AllowN(time.Now(), len(repositoriesAggregated)*3) {
		log.WithField("repositoriesToLoad", len(repositoriesAggregated)).Warning("not enought requests in rate limiter to load details for all repositories")
		return []model.GithubRepository{}, fmt.Errorf("RATE_LIMIT_REACHED")
	}

	log.WithFields(log.Fields{
		"numberOfRepositories": len(repositoriesAggregated),
	}).Debug("will load file listing and readme for all repositories found")

	// aggregate and fetch the details for each repo using goroutines
	repositoriesAggregated, err = s.FetchRepositoriesDetails(repositoriesAggregated)

	if err != nil {
		log.WithError(err).Error("unable to get repositories details")
		return []model.GithubRepository{}, fmt.Errorf("FETCH_ERROR")
	}

	return repositoriesAggregated, nil
}

// FetchRepositoriesDetails will fetch the file listing and readme for each repository in parameters
// this function use wait groups to parallelize the requests for each repository
func (s githubService) FetchRepositoriesDetails(repos []model.GithubRepository) ([]model.GithubRepository, error) {

	// create a group to wait for all goroutines to finish
	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	// create a channel to collect response for all repositories
	// the details contain the repository ID so we can assign them together
	// when all tasks are finished
	results := make(chan model.GithubRepositoryDetails, len(repos))

	for _, r := range repos {
		swg.Add()
		go s.FetchDetailsForSingleRepository(r, &swg, results)
	}

	// wait for all tasks to be finished
	log.Debug("waiting for all threads for loading repositories details to be finished")
	swg.Wait()
	log.Debug("all threads for loading repositories details finished")

	// close the channel
	close(results)

	detailsMap := make(map[int64]model.GithubRepositoryDetails)
	for result := range results {
		detailsMap[result.RepositoryID] = result
	}

	for i := range repos {
		if details, found := detailsMap[repos[i].ID]; found {
			repos[i].Filenames = details.Filenames
			repos[i].Readme = details.Readme
			repos[i].Location = details.Location
		}
	}

	return repos, nil
}

// FetchDetailsForSingleRepository gets the file listing and readme for a specific repository
// It will add the results to a channel and use a goroutine
// note: we are not checking the rate limit in this function, because done in the parent function
// note: take care if you call this function from another function
func (s githubService) FetchDetailsForSingleRepository(r model.GithubRepository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.GithubRepositoryDetails) error {
	defer swg.Done()

	log.WithFields(log.Fields{
		"repositoryID": r.ID,
	}).Debug("fetch file listing and readme for repository")

	filenames, err := s.fetchFilenames(r.Owner, r.Repository)

	if err != nil {
		// keep the sentinel when the walk ran out of budget, it is not a
		// github error
		if err.Error() == "RATE_LIMIT_REACHED" {
			return err
		}

		return s.HandleRequestErrors(err)
	}

	details := model.GithubRepositoryDetails{
		RepositoryID: r.ID,
		Filenames:    filenames,
	}

	// a missing readme is common and not an error
	readme, _, err := s.githubClient.Repositories.GetReadme(context.Background(), r.Owner, r.Repository, nil)

	if err == nil && readme != nil {
		if content, err := readme.GetContent(); err == nil {
			details.Readme = content
		}
	}

	// the owner profile location feeds the city extraction, a profile
	// without location simply stays nil
	owner, _, err := s.githubClient.Users.Get(context.Background(), r.Owner)

	if err == nil && owner != nil {
		details.Location = owner.Location
	}

	ch <- details
	return nil
}

// fetchFilenames walks the repository tree with a stack, directories from
// the skip list are not descended into. The root listing is covered by
// the reservation made before the fan-out, every deeper directory is one
// more core request and takes its own token so the local limiter keeps
// tracking what is really sent to github.
func (s githubService) fetchFilenames(owner string, repo string) ([]string, error) {
	filenames := make([]string, 0)
	stack := []string{""}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if path != "" && !s.githubRateLimiter.Allow() {
			log.WithFields(log.Fields{
				"owner":      owner,
				"repository": repo,
				"path":       path,
			}).Warning("no requests left in rate limiter to walk deeper into the repository tree")

			return nil, fmt.Errorf("RATE_LIMIT_REACHED")
		}

		_, directoryContent, _, err := s.githubClient.Repositories.GetContents(context.Background(), owner, repo, path, nil)

		if err != nil {
			return nil, err
		}

		for _, item := range directoryContent {
			switch item.GetType() {
			case "file":
				filenames = append(filenames, item.GetPath())

			case "dir":
				if _, skip := skippedDirectories[strings.ToLower(item.GetName())]; !skip {
					stack = append(stack, item.GetPath())
				}
			}
		}
	}

	return filenames, nil
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	if _, ok := err.(*github.RateLimitError); ok {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			return fmt.Errorf("RATE_LIMITER_ERROR")
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return fmt.Errorf("RATE_LIMIT_REACHED")
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return fmt.Errorf("FETCH_ERROR")
}

// normalizeLanguage maps the API language to the dataset convention,
// Jupyter Notebook repositories count as Python
func normalizeLanguage(language *string) *string {
	if language != nil && *language == "Jupyter Notebook" {
		python := "Python"
		return &python
	}

	return language
}
