package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/tableside/internal/auth"
	"github.com/Additional-Code/tableside/internal/dto"
	"github.com/Additional-Code/tableside/internal/entity"
	"github.com/Additional-Code/tableside/internal/presentation/http/request"
	"github.com/Additional-Code/tableside/internal/presentation/http/response"
	service "github.com/Additional-Code/tableside/internal/service/order"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/tableside/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance. Staff routes require a bearer token.
func Register(e *echo.Echo, h *Handler, issuer *auth.Issuer) {
	staff := e.Group("/orders", issuer.Middleware())
	staff.POST("", h.create)
	staff.GET("", h.list)
	staff.GET("/:id", h.getByID)
	staff.PUT("/:id/status", h.setStatus)
	staff.PUT("/:id/payment", h.setPayment)
	staff.GET("/:id/events", h.events)

	e.GET("/tables/:id/orders", h.tableHistory)

	public := e.Group("/public")
	public.POST("/orders", h.create)
	public.GET("/menu", h.menu)
	public.GET("/tables/:id", h.table)
}

type lineRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	// Price is accepted for compatibility and always replaced by the menu price.
	Price decimal.Decimal `json:"price"`
	Notes string          `json:"notes" validate:"max=500"`
}

type createOrderRequest struct {
	TableID  string `json:"table_id" validate:"required,uuid"`
	Customer struct {
		Name  string `json:"name" validate:"max=100"`
		Email string `json:"email" validate:"omitempty,email"`
	} `json:"customer"`
	Notes string        `json:"notes" validate:"max=1000"`
	Items []lineRequest `json:"items" validate:"required,min=1,dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload createOrderRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.String("table.id", payload.TableID),
		attribute.Int("order.lines", len(payload.Items)),
	))
	defer span.End()

	in := service.CreateInput{
		TableID:       payload.TableID,
		CustomerName:  payload.Customer.Name,
		CustomerEmail: payload.Customer.Email,
		Notes:         payload.Notes,
		Items:         make([]service.LineInput, 0, len(payload.Items)),
	}
	for _, line := range payload.Items {
		in.Items = append(in.Items, service.LineInput{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Notes:      line.Notes,
		})
	}

	order, err := h.svc.Create(ctx, in)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx, service.ListFilter{
		Status:  entity.Status(c.QueryParam("status")),
		TableID: c.QueryParam("table"),
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrders(orders)).WithMeta("count", len(orders)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) setStatus(c echo.Context) error {
	b := response.New(c)

	var payload statusRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.setStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.SetStatus(ctx, id, entity.Status(payload.Status), auth.ActorID(c))
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) setPayment(c echo.Context) error {
	b := response.New(c)

	var payload paymentRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.setPayment", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.payment_status", payload.PaymentStatus),
	))
	defer span.End()

	order, err := h.svc.SetPaymentStatus(ctx, id, entity.PaymentStatus(payload.PaymentStatus), auth.ActorID(c))
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) events(c echo.Context) error {
	b := response.New(c)

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.events", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	events, err := h.svc.Events(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromEvents(events)).Build()
}

func (h *Handler) tableHistory(c echo.Context) error {
	b := response.New(c)

	includeCompleted := false
	if raw := c.QueryParam("include_completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("include_completed must be a boolean", errorbank.WithCause(err))).Build()
		}
		includeCompleted = v
	}

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.tableHistory", trace.WithAttributes(
		attribute.String("table.id", id),
		attribute.Bool("include_completed", includeCompleted),
	))
	defer span.End()

	orders, err := h.svc.ListForTable(ctx, id, includeCompleted)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrders(orders)).WithMeta("count", len(orders)).Build()
}

func (h *Handler) menu(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "public.menu")
	defer span.End()

	items, err := h.svc.Menu(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromMenu(items)).Build()
}

func (h *Handler) table(c echo.Context) error {
	b := response.New(c)

	table, err := h.svc.Table(c.Request().Context(), c.Param("id"))
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromTable(table)).Build()
}
