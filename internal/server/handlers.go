package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/filter"
	"github.com/swilhoit/sunbeam/internal/store"
)

// ProductsResponse is the body of list endpoints.
type ProductsResponse struct {
	Products []catalog.EnrichedProduct `json:"products"`
	Count    int                       `json:"count"`
	Total    int                       `json:"total"`
}

func (s *Server) listProducts(c *gin.Context) {
	spec, err := filter.ParseValues(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := s.holder.Current()
	c.JSON(http.StatusOK, listResponse(filter.Apply(cat.All(), spec), cat.Len()))
}

func (s *Server) getProduct(c *gin.Context) {
	handle := c.Param("handle")
	p, ok := s.holder.Current().ByHandle(handle)
	if !ok {
		notFound(c, handle)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) relatedProducts(c *gin.Context) {
	limit, ok := queryLimit(c, store.DefaultRelatedLimit)
	if !ok {
		return
	}
	cat := s.holder.Current()
	handle := c.Param("handle")
	p, found := cat.ByHandle(handle)
	if !found {
		notFound(c, handle)
		return
	}
	c.JSON(http.StatusOK, listResponse(cat.Related(p, limit), cat.Len()))
}

func (s *Server) search(c *gin.Context) {
	limit, ok := queryLimit(c, 0)
	if !ok {
		return
	}
	cat := s.holder.Current()
	results := cat.Search(c.Query("q"))
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	c.JSON(http.StatusOK, listResponse(results, cat.Len()))
}

func (s *Server) facets(c *gin.Context) {
	c.JSON(http.StatusOK, filter.Derive(s.holder.Current().All()))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"products": s.holder.Current().Len(),
	})
}

func listResponse(products []catalog.EnrichedProduct, total int) ProductsResponse {
	if products == nil {
		products = []catalog.EnrichedProduct{}
	}
	return ProductsResponse{Products: products, Count: len(products), Total: total}
}

func notFound(c *gin.Context, handle string) {
	c.JSON(http.StatusNotFound, gin.H{"error": "product not found", "handle": handle})
}

// queryLimit reads ?limit=, writing a 400 and returning false when it is
// not a non-negative integer.
func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
