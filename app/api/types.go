package api

import (
	"net/http"

	"github.com/MinPika/ignition-automation/app/config"
	"github.com/MinPika/ignition-automation/app/database"
	"github.com/MinPika/ignition-automation/app/document"
	"github.com/MinPika/ignition-automation/app/tasks"
)

type GeneratorInterface interface {
	Run(site database.Site, posts []database.Post) (string, error)
}

var _ GeneratorInterface = (*Generator)(nil)

type Handler struct {
	siteRepo   database.SiteRepository
	postRepo   database.PostRepository
	topicRepo  database.TopicRepository
	generator  GeneratorInterface
	siteCache  *config.SiteCache
	converter  *document.Converter
	httpClient *http.Client
	scheduler  tasks.TaskSchedulerInterface
	userAgent  string
}
