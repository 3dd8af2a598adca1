package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/sitesearch/config"
	"github.com/meghashyamc/sitesearch/db/kvdb"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/services/index"
	"github.com/meghashyamc/sitesearch/validation"
)

type IndexRequest struct {
	Path    string `json:"path" validate:"required,valid_path"`
	BaseURL string `json:"base_url" validate:"valid_base_url,max=2048"`
}

type IndexResponse struct {
	ID string `json:"id"`
}

type IndexStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

// IndexDefaults fills in what an index request leaves out.
type IndexDefaults struct {
	BaseURL        string
	Extension      string
	ExcludeFolders []string
}

func IndexDefaultsFromConfig(cfg *config.Config) IndexDefaults {
	return IndexDefaults{
		BaseURL:        cfg.GetBaseURL(),
		Extension:      cfg.GetFileExtension(),
		ExcludeFolders: cfg.GetExcludeFolders(),
	}
}

func SetupIndex(router *gin.Engine, logger logger.Logger, service *index.Service, defaults IndexDefaults, validator *validation.Validator) {
	router.POST("/index", handleIndex(service, defaults, logger, validator))
	router.GET("/index/:id", handleIndexStatus(service, logger))

}

func handleIndex(service *index.Service, defaults IndexDefaults, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := IndexRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected parameters from index request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		options := index.Options{
			RootPath:       request.Path,
			BaseURL:        request.BaseURL,
			Extension:      defaults.Extension,
			ExcludeFolders: defaults.ExcludeFolders,
		}
		if options.BaseURL == "" {
			options.BaseURL = defaults.BaseURL
		}

		requestID := uuid.New().String()
		if err := service.Build(options, requestID); err != nil {
			logger.Warn("could not start index build", "err", err.Error())
			c.Abort()
			statusCode := http.StatusInternalServerError
			if errors.Is(err, index.ErrBuildInProgress) {
				statusCode = http.StatusConflict
			}
			writeResponse(c, nil, statusCode, []string{err.Error()})
			return
		}

		writeResponse(c, IndexResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleIndexStatus(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")
		if _, err := uuid.Parse(requestID); err != nil {
			logger.Warn("invalid request id", "request_id", requestID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{"invalid request id"})
			return
		}

		progress, err := service.GetStatus(requestID)
		if err != nil {
			c.Abort()
			if errors.Is(err, kvdb.ErrNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{"request not found"})
				return
			}
			logger.Error("could not get index status", "request_id", requestID, "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		response := IndexStatusResponse{ID: requestID, Progress: progress}
		switch progress {
		case index.ProgressStatusComplete:
			writeResponse(c, response, http.StatusOK, nil)
		case index.ProgressStatusFailed:
			writeResponse(c, response, http.StatusInternalServerError, []string{"index build failed"})
		default:
			writeResponse(c, response, http.StatusAccepted, nil)
		}
	}
}
