package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/masayahak/go-order-app/internal/domains/orders/domain"
	orderports "github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

const tracerName = "github.com/masayahak/go-order-app/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListOrdersPage(ctx context.Context, query pagination.Query, dates orderports.DateRange) (pagination.Page[*orderdomain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersPage",
		trace.WithAttributes(attribute.Int("page", query.Page), attribute.Int("page_size", query.PageSize)))
	defer span.End()

	result, err := s.inner.ListOrdersPage(ctx, query, dates)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to page orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", result.TotalCount))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) SearchOrders(ctx context.Context, keyword string) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SearchOrders")
	defer span.End()

	result, err := s.inner.SearchOrders(ctx, keyword)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search orders")
	}
	return result, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *orderdomain.Order, details []orderdomain.Detail) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.details", len(details))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int("order.details", len(details)))
	result, err := s.inner.CreateOrder(ctx, order, details)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.Int64("order.total_amount", result.TotalAmount))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id int64, changes orderdomain.Changes, details []orderdomain.Detail) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", id))
	result, err := s.inner.UpdateOrder(ctx, id, changes, details)
	if err != nil {
		if errors.Is(err, orderports.ErrVersionConflict) {
			s.metrics.recordConflict(ctx)
		}
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", id))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "order updated", slog.Int64("order.id", result.ID), slog.Int64("order.version", result.Version))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64, version int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.Int64("order.version", version)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	removed, err := s.inner.DeleteOrder(ctx, id, version)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.removed", removed))
	if removed {
		s.metrics.recordDeleted(ctx)
		s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	}
	return removed, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated    metric.Int64Counter
	ordersUpdated    metric.Int64Counter
	ordersDeleted    metric.Int64Counter
	versionConflicts metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersUpdated, _ := m.Int64Counter("orders.service.updated", metric.WithDescription("Number of orders updated"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	versionConflicts, _ := m.Int64Counter("orders.service.version_conflicts", metric.WithDescription("Number of optimistic-lock conflicts on update"))
	return serviceMetrics{
		ordersCreated:    ordersCreated,
		ordersUpdated:    ordersUpdated,
		ordersDeleted:    ordersDeleted,
		versionConflicts: versionConflicts,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.ordersUpdated != nil {
		m.ordersUpdated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordConflict(ctx context.Context) {
	if m.versionConflicts != nil {
		m.versionConflicts.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
