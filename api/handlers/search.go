package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/db/searchdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
)

const defaultResultsPerPage = 20

type SearchRequest struct {
	Query      string `form:"query" json:"query" validate:"required,valid_query,min=1,max=1000"`
	Type       string `form:"type" json:"type" validate:"valid_query_type"`
	Attributes string `form:"attributes" json:"attributes" validate:"valid_attributes,max=1000"`
	PerPage    int    `form:"per_page" json:"per_page" validate:"min=0,max=100"`
	Page       int    `form:"page" json:"page" validate:"min=0"`
}

func (r *SearchRequest) setDefaults() {
	if r.Type == "" {
		r.Type = model.QueryTypeFullText.String()
	}

	if r.PerPage == 0 {
		r.PerPage = defaultResultsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

func (r *SearchRequest) attributeNames() []string {
	if r.Attributes == "" {
		return nil
	}

	names := strings.Split(r.Attributes, ",")
	for i, name := range names {
		names[i] = strings.TrimSpace(name)
	}
	return names
}

type SearchResponse struct {
	ID          string              `json:"id"`
	Result      *model.SearchResult `json:"result"`
	PageDetails Pagination          `json:"page_details"`
}

type SearchResultURI struct {
	ID string `uri:"id" json:"id" validate:"required,uuid"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, logger, validator))
	router.GET("/searches/:id", handleGetSearchResult(service, logger, validator))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		queryType, err := model.ParseQueryType(request.Type)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		limit := service.Limit(request.PerPage)
		offset := (request.Page - 1) * limit
		results, err := service.Search(search.Request{
			QueryText:  request.Query,
			QueryType:  queryType,
			Limit:      limit,
			Offset:     offset,
			Attributes: request.attributeNames(),
		})
		if err != nil {
			c.Abort()
			switch {
			case errors.Is(err, search.ErrUnsupportedQueryType):
				writeResponse(c, nil, http.StatusNotImplemented, []string{err.Error()})
			case errors.Is(err, searchdb.ErrInvalidQuery):
				writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			default:
				logger.Error("search failed", "err", err.Error())
				writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			}
			return
		}

		searchResponse := SearchResponse{
			ID:     results.ID,
			Result: results.Result,
			PageDetails: calculatePagination(
				int(results.Total),
				results.Limit,
				offset),
		}

		c.Header(HeaderPaginationTotalCount, strconv.FormatUint(results.Total, 10))
		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}

// handleGetSearchResult serves a stored SearchResult as is, in XML when the
// client prefers it and JSON otherwise.
func handleGetSearchResult(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := SearchResultURI{}
		if err := c.ShouldBindUri(&uri); err != nil {
			logger.Warn("could not extract search id from the path", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract path parameters"})
			return
		}

		if err := validator.Validate(uri); err != nil {
			logger.Warn("could not validate search id", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		result, err := service.GetResult(uri.ID)
		if err != nil {
			c.Abort()
			writeLookupError(c, logger, err)
			return
		}

		writeSearchResult(c, logger, result)
	}
}
