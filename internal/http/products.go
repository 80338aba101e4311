package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Search in name, description and specs"
// @Param category query string false "Category"
// @Param brand query []string false "Brand" collectionFormat(multi)
// @Param condition query []string false "Condition" collectionFormat(multi)
// @Param location query []string false "City" collectionFormat(multi)
// @Param min_price query int false "Min price"
// @Param max_price query int false "Max price"
// @Param featured query bool false "Featured only"
// @Param sort query string false "date | price-low | price-high"
// @Success 200 {array} domain.Product
// @Failure 400 {object} errorResponse
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	list, err := s.svc.Products.List(c, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type filterError string

func (e filterError) Error() string { return string(e) }

func parseFilter(c *gin.Context) (repository.ProductFilter, error) {
	f := repository.ProductFilter{
		Query:    c.Query("q"),
		Category: domain.ProductCategory(c.Query("category")),
		Sort:     repository.SortOrder(c.Query("sort")),
	}
	if f.Category != "" && !f.Category.Valid() {
		return f, filterError("unknown category")
	}
	switch f.Sort {
	case "", repository.SortNewest, repository.SortPriceLow, repository.SortPriceHigh:
	default:
		return f, filterError("unknown sort order")
	}
	for _, v := range c.QueryArray("brand") {
		f.Brands = append(f.Brands, domain.Brand(v))
	}
	for _, v := range c.QueryArray("condition") {
		f.Conditions = append(f.Conditions, domain.ProductCondition(v))
	}
	for _, v := range c.QueryArray("location") {
		f.Locations = append(f.Locations, domain.City(v))
	}
	var err error
	if f.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return f, err
	}
	if v := c.Query("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, filterError("invalid featured flag")
		}
		f.FeaturedOnly = b
	}
	return f, nil
}

func priceParam(c *gin.Context, name string) (*int64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	x, err := strconv.ParseInt(v, 10, 64)
	if err != nil || x < 0 {
		return nil, filterError("invalid " + name)
	}
	return &x, nil
}

// @Summary Featured products
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Router /products/featured [get]
func (s *Server) featuredProducts(c *gin.Context) {
	list, err := s.svc.Products.Featured(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} errorResponse
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.svc.Products.GetByID(c, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type productReq struct {
	Name        string                  `json:"name" binding:"required"`
	Category    domain.ProductCategory  `json:"category" binding:"required"`
	Condition   domain.ProductCondition `json:"condition" binding:"required"`
	Price       int64                   `json:"price" binding:"gte=0"`
	Description string                  `json:"description"`
	Specs       []string                `json:"specs"`
	Images      []string                `json:"images"`
	Brand       domain.Brand            `json:"brand" binding:"required"`
	Location    domain.City             `json:"location" binding:"required"`
	Featured    bool                    `json:"featured"`
}

func (r productReq) product(id string) domain.Product {
	specs, images := r.Specs, r.Images
	if specs == nil {
		specs = []string{}
	}
	if images == nil {
		images = []string{}
	}
	return domain.Product{
		ID:          id,
		Name:        r.Name,
		Category:    r.Category,
		Condition:   r.Condition,
		Price:       r.Price,
		Description: r.Description,
		Specs:       specs,
		Images:      images,
		Brand:       r.Brand,
		Location:    r.Location,
		Featured:    r.Featured,
	}
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Param X-Admin-Token header string true "Operator token"
// @Success 201 {object} domain.Product
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.svc.Products.Create(c, req.product(""))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body productReq true "Product"
// @Param X-Admin-Token header string true "Operator token"
// @Success 200 {object} domain.Product
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.svc.Products.Update(c, req.product(c.Param("id")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Param X-Admin-Token header string true "Operator token"
// @Success 204
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.svc.Products.Delete(c, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type categoryShelf struct {
	Category domain.ProductCategory `json:"category"`
	Count    int                    `json:"count"`
	Products []domain.Product       `json:"products"`
}

type homeResponse struct {
	Featured   []domain.Product `json:"featured"`
	Categories []categoryShelf  `json:"categories"`
}

const shelfSize = 4

// @Summary Home page data
// @Description Featured products plus the newest items of every category.
// @Tags products
// @Produce json
// @Success 200 {object} homeResponse
// @Router /home [get]
func (s *Server) home(c *gin.Context) {
	var resp homeResponse
	resp.Categories = make([]categoryShelf, len(domain.Categories))

	g, ctx := errgroup.WithContext(c)
	g.Go(func() error {
		list, err := s.svc.Products.Featured(ctx)
		resp.Featured = list
		return err
	})
	for i, cat := range domain.Categories {
		g.Go(func() error {
			list, err := s.svc.Products.ByCategory(ctx, cat)
			if err != nil {
				return err
			}
			shelf := categoryShelf{Category: cat, Count: len(list), Products: list}
			if len(list) > shelfSize {
				shelf.Products = list[:shelfSize]
			}
			resp.Categories[i] = shelf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
