package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
	"github.com/meghashyamc/catalogsearch/services/catalog"
	"github.com/meghashyamc/catalogsearch/validation"
)

type RegisterEntitiesRequest struct {
	Entities []*model.EntityHeader `json:"entities" validate:"required,min=1,max=1000"`
}

type EntityURI struct {
	GUID string `uri:"guid" json:"guid" validate:"required,valid_guid"`
}

func SetupEntities(router *gin.Engine, logger logger.Logger, service *catalog.Service, validator *validation.Validator) {
	router.POST("/entities", handleRegisterEntities(service, logger, validator))
	router.GET("/entities/:guid", handleGetEntity(service, logger, validator))
	router.DELETE("/entities/:guid", handleDeleteEntity(service, logger, validator))
}

func handleRegisterEntities(service *catalog.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := RegisterEntitiesRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract entities from the request body", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate register entities request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		if err := service.Register(request.Entities); err != nil {
			c.Abort()
			if errors.Is(err, catalog.ErrMissingGUID) || errors.Is(err, kvdb.ErrInvalidKey) {
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
				return
			}
			logger.Error("could not register entities", "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func handleGetEntity(service *catalog.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri, ok := bindEntityURI(c, logger, validator)
		if !ok {
			return
		}

		entity, err := service.Get(uri.GUID)
		if err != nil {
			c.Abort()
			writeLookupError(c, logger, err)
			return
		}

		writeResponse(c, entity, http.StatusOK, nil)
	}
}

func handleDeleteEntity(service *catalog.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri, ok := bindEntityURI(c, logger, validator)
		if !ok {
			return
		}

		if err := service.Delete(uri.GUID); err != nil {
			c.Abort()
			writeLookupError(c, logger, err)
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func bindEntityURI(c *gin.Context, logger logger.Logger, validator *validation.Validator) (EntityURI, bool) {
	uri := EntityURI{}
	if err := c.ShouldBindUri(&uri); err != nil {
		logger.Warn("could not extract guid from the path", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract path parameters"})
		return uri, false
	}

	if err := validator.Validate(uri); err != nil {
		logger.Warn("could not validate guid", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return uri, false
	}

	return uri, true
}
