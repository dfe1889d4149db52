package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
)

const HeaderPaginationTotalCount = "X-Pagination-Total-Count"

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
)

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// writeLookupError maps store errors for a single key to a status code.
func writeLookupError(c *gin.Context, logger logger.Logger, err error) {
	switch {
	case errors.Is(err, kvdb.ErrNotFound):
		writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
	case errors.Is(err, kvdb.ErrInvalidKey):
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
	default:
		logger.Error("lookup failed", "err", err.Error())
		writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
	}
}

// writeSearchResult writes the bare SearchResult, without the response
// envelope, in the format picked from the Accept header.
func writeSearchResult(c *gin.Context, logger logger.Logger, result *model.SearchResult) {
	encode, contentType := model.EncodeJSON, contentTypeJSON
	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEXML, gin.MIMEXML2) {
	case gin.MIMEXML, gin.MIMEXML2:
		encode, contentType = model.EncodeXML, contentTypeXML
	}

	data, err := encode(result)
	if err != nil {
		logger.Error("could not encode search result", "err", err.Error())
		writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
	TotalResults int  `json:"total_results"`
}

func calculatePagination(total, limit, offset int) Pagination {
	pageSize := limit
	currentPage := (offset / limit) + 1
	totalPages := (total + pageSize - 1) / pageSize

	if totalPages == 0 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
		TotalResults: total,
	}
}
