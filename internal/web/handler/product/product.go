// Package product provides the product HTTP API.
package product

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db/models"
	"github.com/mrengworks/catalog/internal/uniuri"
	"github.com/mrengworks/catalog/internal/web/handler"
)

const (
	// Path is the path of the product API.
	Path = handler.APIPath + "/products"

	// ImagesField is the multipart field carrying image files.
	ImagesField = "images"

	defaultName  = "New Product"
	defaultDesc  = "Product description"
	defaultPrice = "Contact for price"
)

// Form holds the product fields of a create or update request.
// Stock and ReplaceImages are strings so an absent field can be told apart from zero.
type Form struct {
	Name          string `form:"name"          json:"name"          validate:"max=255"`
	Desc          string `form:"desc"          json:"desc"`
	Price         string `form:"price"         json:"price"         validate:"max=100"`
	SKU           string `form:"sku"           json:"sku"           validate:"max=100"`
	Stock         string `form:"stock"         json:"stock"         validate:"omitempty,number"`
	ReplaceImages string `form:"replaceImages" json:"replaceImages" validate:"omitempty,boolean"`
}

// Service is the product handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the product handler.
var Handler = Service{}

// Init initializes the product handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg
	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/:"+handler.IDParam, s.Get)
		router.Post(handler.RouterRootPath, deps.Guard(), s.Create)
		router.Put("/:"+handler.IDParam, deps.Guard(), s.Update)
		router.Delete("/:"+handler.IDParam, deps.Guard(), s.Delete)
	})

	return nil
}

// List returns all products in store order.
func (s *Service) List(c *fiber.Ctx) error {
	products, err := s.deps.Products.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

// Get returns one product.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := s.deps.Products.Get(c.UserContext(), c.Params(handler.IDParam))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    p,
	})
}

// Create stores the uploaded images and inserts a new product.
// Nothing is persisted if any file is rejected.
func (s *Service) Create(c *fiber.Ctx) error {
	form, files, err := s.parse(c)
	if err != nil {
		return err
	}

	p := &models.Product{
		Name:   orDefault(form.Name, defaultName),
		Desc:   orDefault(form.Desc, defaultDesc),
		Price:  orDefault(form.Price, defaultPrice),
		SKU:    strings.TrimSpace(form.SKU),
		Images: models.ImageList{},
	}

	if p.SKU == "" {
		p.SKU = uniuri.SKU()
	}

	if form.Stock != "" {
		p.Stock, _ = strconv.Atoi(form.Stock)
	}

	refs, err := s.deps.Uploads.Save(files)
	if err != nil {
		return err
	}

	p.Images = append(p.Images, refs...)

	if err = s.deps.Products.Create(c.UserContext(), p); err != nil {
		s.deps.Uploads.Remove(refs)
		return err
	}

	log.Info().Str("id", p.ID).Str("sku", p.SKU).Int("images", len(refs)).Msg("product created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"product": p,
	})
}

// Update replaces the non-empty fields of a product and appends uploaded images.
func (s *Service) Update(c *fiber.Ctx) error {
	form, files, err := s.parse(c)
	if err != nil {
		return err
	}

	p, err := s.deps.Products.Get(c.UserContext(), c.Params(handler.IDParam))
	if err != nil {
		return err
	}

	if form.Name != "" {
		p.Name = form.Name
	}

	if form.Desc != "" {
		p.Desc = form.Desc
	}

	if form.Price != "" {
		p.Price = form.Price
	}

	if sku := strings.TrimSpace(form.SKU); sku != "" {
		p.SKU = sku
	}

	if form.Stock != "" {
		p.Stock, _ = strconv.Atoi(form.Stock)
	}

	refs, err := s.deps.Uploads.Save(files)
	if err != nil {
		return err
	}

	replace, _ := strconv.ParseBool(form.ReplaceImages)
	if replace {
		p.Images = models.ImageList(refs)
	} else {
		p.Images = append(p.Images, refs...)
	}

	if err = s.deps.Products.Update(c.UserContext(), p); err != nil {
		s.deps.Uploads.Remove(refs)
		return err
	}

	log.Info().Str("id", p.ID).Int("images", len(refs)).Bool("replace", replace).Msg("product updated")

	return c.JSON(fiber.Map{
		"success": true,
		"product": p,
	})
}

// Delete removes a product for good. Its image files stay on disk.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params(handler.IDParam)

	if err := s.deps.Products.Delete(c.UserContext(), id); err != nil {
		return err
	}

	log.Info().Str("id", id).Msg("product deleted")

	return c.JSON(handler.Response{Success: true, Message: "Product deleted"})
}

// parse reads the form fields and, for multipart bodies, the image files.
func (s *Service) parse(c *fiber.Ctx) (*Form, []*multipart.FileHeader, error) {
	form := new(Form)

	if len(c.Body()) > 0 {
		if err := c.BodyParser(form); err != nil {
			return nil, nil, catalog.NewValidationError("Invalid form data")
		}
	}

	if err := handler.ValidateStruct(s.deps.Validator, form); err != nil {
		return nil, nil, err
	}

	if n, err := strconv.Atoi(form.Stock); form.Stock != "" && (err != nil || n < 0) {
		return nil, nil, catalog.NewValidationError("stock must be at least 0")
	}

	var files []*multipart.FileHeader

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, nil, catalog.NewValidationError("Invalid form data")
		}

		files = mf.File[ImagesField]
	}

	return form, files, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}

	return v
}
