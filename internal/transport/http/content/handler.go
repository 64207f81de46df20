package content

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	repo "github.com/Additional-Code/funerarias/internal/repository/content"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/content"
)

// Handler exposes obituaries, the blog, plans and subscriptions over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a content Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts content routes on the three surfaces.
func Register(r *httpserver.Routes, h *Handler) {
	r.Public.GET("/obituaries", h.publicObituaries)
	r.Public.GET("/obituaries/:id", h.publicObituary)
	r.Public.GET("/blog", h.publicPosts)
	r.Public.GET("/blog/:slug", h.publicPost)
	r.Public.GET("/plans", h.publicPlans)

	obits := r.Dashboard.Group("/obituaries")
	obits.GET("", h.listObituaries)
	obits.POST("", h.createObituary)
	obits.GET("/:id", h.getObituary)
	obits.PUT("/:id", h.updateObituary)
	obits.DELETE("/:id", h.deleteObituary)
	r.Dashboard.GET("/subscription", h.subscription)
	r.Dashboard.PUT("/subscription", h.subscribe)

	posts := r.Admin.Group("/posts")
	posts.GET("", h.listPosts)
	posts.POST("", h.createPost)
	posts.GET("/slug/:slug", h.getPost)
	posts.PUT("/:id", h.updatePost)
	posts.DELETE("/:id", h.deletePost)

	plans := r.Admin.Group("/plans")
	plans.GET("", h.listPlans)
	plans.POST("", h.createPlan)
	plans.PUT("/:id", h.updatePlan)
	plans.DELETE("/:id", h.deletePlan)
}

func obituaryQuery(c echo.Context) (repo.ObituaryQuery, error) {
	limit, offset, err := request.Page(c)
	if err != nil {
		return repo.ObituaryQuery{}, err
	}
	return repo.ObituaryQuery{
		Text:    c.QueryParam("q"),
		Commune: c.QueryParam("commune"),
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func postQuery(c echo.Context) (repo.PostQuery, error) {
	limit, offset, err := request.Page(c)
	if err != nil {
		return repo.PostQuery{}, err
	}
	return repo.PostQuery{
		Text:   c.QueryParam("q"),
		Tag:    c.QueryParam("tag"),
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (h *Handler) publicObituaries(c echo.Context) error {
	b := response.New(c)

	q, err := obituaryQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	q.PublishedOnly = true
	rows, total, err := h.svc.ListObituaries(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) publicObituary(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	o, err := h.svc.GetObituary(c.Request().Context(), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(o).Build()
}

func (h *Handler) publicPosts(c echo.Context) error {
	b := response.New(c)

	q, err := postQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	q.PublishedOnly = true
	rows, total, err := h.svc.ListPosts(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) publicPost(c echo.Context) error {
	b := response.New(c)

	p, err := h.svc.GetPost(c.Request().Context(), c.Param("slug"), false)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) publicPlans(c echo.Context) error {
	b := response.New(c)

	plans, err := h.svc.ListPlans(c.Request().Context(), true)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(plans).Build()
}

func (h *Handler) listObituaries(c echo.Context) error {
	b := response.New(c)

	q, err := obituaryQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	q.ProviderID = httpserver.ProviderID(c)
	rows, total, err := h.svc.ListObituaries(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) obituaryInput(c echo.Context, files *request.Files) (service.ObituaryInput, error) {
	var form dto.ObituaryForm
	if err := request.Bind(c, &form); err != nil {
		return service.ObituaryInput{}, err
	}
	in, err := form.ToInput()
	if err != nil {
		return in, err
	}
	in.Photo, err = files.Upload(c, "photo")
	return in, err
}

func (h *Handler) createObituary(c echo.Context) error {
	b := response.New(c)

	var files request.Files
	defer files.Close()
	in, err := h.obituaryInput(c, &files)
	if err != nil {
		return b.WithError(err).Build()
	}
	o, err := h.svc.CreateObituary(c.Request().Context(), httpserver.ProviderID(c), in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(o).Build()
}

func (h *Handler) getObituary(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	o, err := h.svc.OwnedObituary(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(o).Build()
}

func (h *Handler) updateObituary(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var files request.Files
	defer files.Close()
	in, err := h.obituaryInput(c, &files)
	if err != nil {
		return b.WithError(err).Build()
	}
	o, err := h.svc.UpdateObituary(c.Request().Context(), httpserver.ProviderID(c), id, in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(o).Build()
}

func (h *Handler) deleteObituary(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeleteObituary(c.Request().Context(), httpserver.ProviderID(c), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) subscription(c echo.Context) error {
	b := response.New(c)

	sub, err := h.svc.Subscription(c.Request().Context(), httpserver.ProviderID(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(sub).Build()
}

func (h *Handler) subscribe(c echo.Context) error {
	b := response.New(c)

	var payload dto.SubscribeRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	sub, err := h.svc.Subscribe(c.Request().Context(), httpserver.ProviderID(c), payload.PlanID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(sub).Build()
}

func (h *Handler) listPosts(c echo.Context) error {
	b := response.New(c)

	q, err := postQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.ListPosts(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) postInput(c echo.Context, files *request.Files) (service.PostInput, error) {
	var form dto.PostForm
	if err := request.Bind(c, &form); err != nil {
		return service.PostInput{}, err
	}
	in := form.ToInput()
	var err error
	in.Image, err = files.Upload(c, "image")
	return in, err
}

func (h *Handler) createPost(c echo.Context) error {
	b := response.New(c)

	var files request.Files
	defer files.Close()
	in, err := h.postInput(c, &files)
	if err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.CreatePost(c.Request().Context(), in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(p).Build()
}

func (h *Handler) getPost(c echo.Context) error {
	b := response.New(c)

	p, err := h.svc.GetPost(c.Request().Context(), c.Param("slug"), true)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) updatePost(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var files request.Files
	defer files.Close()
	in, err := h.postInput(c, &files)
	if err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.UpdatePost(c.Request().Context(), id, in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) deletePost(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeletePost(c.Request().Context(), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listPlans(c echo.Context) error {
	b := response.New(c)

	activeOnly, err := request.Bool(c, "active")
	if err != nil {
		return b.WithError(err).Build()
	}
	plans, err := h.svc.ListPlans(c.Request().Context(), activeOnly)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(plans).Build()
}

func (h *Handler) createPlan(c echo.Context) error {
	b := response.New(c)

	var payload dto.PlanRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.CreatePlan(c.Request().Context(), payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(p).Build()
}

func (h *Handler) updatePlan(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.PlanRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.UpdatePlan(c.Request().Context(), id, payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) deletePlan(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeletePlan(c.Request().Context(), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}
