package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mediamanager/services"
	"mediamanager/utils"
)

type SearchController struct {
	search *services.SearchService
}

func NewSearchController(search *services.SearchService) *SearchController {
	return &SearchController{search: search}
}

// Search runs a global name search over files and folders.
func (sc *SearchController) Search(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	query := c.Query("q")
	includeFiles := c.DefaultQuery("includeFiles", "true") != "false"
	includeFolders := c.DefaultQuery("includeFolders", "true") != "false"

	result, err := sc.search.SearchGlobal(c.Request.Context(), userID, query, includeFiles, includeFolders)
	if err != nil {
		handleServiceError(c, err, "Failed to search")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// SearchAdvanced runs a filtered, paginated search.
func (sc *SearchController) SearchAdvanced(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	query := services.AdvancedQuery{
		Query:    c.Query("q"),
		Type:     c.DefaultQuery("type", "all"),
		MimeType: c.Query("mimeType"),
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	switch query.Type {
	case "file", "folder", "all":
	default:
		utils.BadRequestResponse(c, "Invalid type: must be file, folder or all", nil)
		return
	}

	if value := c.Query("minSize"); value != "" {
		size, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid minSize", nil)
			return
		}
		query.MinSize = &size
	}
	if value := c.Query("maxSize"); value != "" {
		size, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid maxSize", nil)
			return
		}
		query.MaxSize = &size
	}

	if value := c.Query("dateFrom"); value != "" {
		from, err := parseDate(value)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid dateFrom: expected RFC 3339 or YYYY-MM-DD", nil)
			return
		}
		query.CreatedFrom = &from
	}
	if value := c.Query("dateTo"); value != "" {
		to, err := parseDate(value)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid dateTo: expected RFC 3339 or YYYY-MM-DD", nil)
			return
		}
		query.CreatedTo = &to
	}

	result, err := sc.search.SearchAdvanced(c.Request.Context(), userID, query)
	if err != nil {
		handleServiceError(c, err, "Failed to search")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// Suggest returns autocomplete candidates for a partial query.
func (sc *SearchController) Suggest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	suggestions, err := sc.search.Suggest(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		handleServiceError(c, err, "Failed to load suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": suggestions})
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
