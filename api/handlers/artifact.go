package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/sitesearch/db/kvdb"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/services/index"
)

const artifactContentType = "application/javascript; charset=utf-8"

func SetupArtifact(router *gin.Engine, logger logger.Logger, service *index.Service) {
	router.GET("/artifact", handleArtifact(service, logger))
	router.GET("/builds/latest", handleLatestBuild(service, logger))
}

func handleArtifact(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := service.GetLatestBuild()
		if err != nil {
			writeLatestBuildError(c, logger, err)
			return
		}

		contents, err := os.ReadFile(record.OutputPath)
		if err != nil {
			logger.Error("could not read artifact", "path", record.OutputPath, "err", err.Error())
			c.Abort()
			if errors.Is(err, os.ErrNotExist) {
				writeResponse(c, nil, http.StatusNotFound, []string{"artifact not found"})
				return
			}
			writeResponse(c, nil, http.StatusInternalServerError, []string{"could not read artifact"})
			return
		}

		c.Data(http.StatusOK, artifactContentType, contents)
	}
}

func handleLatestBuild(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := service.GetLatestBuild()
		if err != nil {
			writeLatestBuildError(c, logger, err)
			return
		}

		writeResponse(c, record, http.StatusOK, nil)
	}
}

func writeLatestBuildError(c *gin.Context, logger logger.Logger, err error) {
	c.Abort()
	if errors.Is(err, kvdb.ErrNotFound) {
		writeResponse(c, nil, http.StatusNotFound, []string{"no index has been built yet"})
		return
	}
	logger.Error("could not get latest build", "err", err.Error())
	writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
}
