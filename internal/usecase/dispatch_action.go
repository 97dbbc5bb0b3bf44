package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

const tracerName = "github.com/i2y/freshservice-mcp/internal/usecase"

// DispatchActionUseCase routes a (resource, action, parameters) request
// through its transformation rule and executes the resulting upstream calls.
type DispatchActionUseCase struct {
	rules   RuleSet
	gateway Gateway
	fields  FieldDiscoverer
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewDispatchActionUseCase creates a new DispatchActionUseCase. fields may be
// nil, in which case live choice validation is skipped.
func NewDispatchActionUseCase(rules RuleSet, gateway Gateway, fields FieldDiscoverer, logger *slog.Logger) *DispatchActionUseCase {
	return &DispatchActionUseCase{
		rules:   rules,
		gateway: gateway,
		fields:  fields,
		tracer:  otel.Tracer(tracerName),
		logger:  logger.With("usecase", "DispatchAction"),
	}
}

// Execute validates and transforms req, performs the upstream call sequence
// and returns the normalized result. The caller's parameter map is never
// modified.
func (uc *DispatchActionUseCase) Execute(ctx context.Context, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	dispatchID := uuid.NewString()

	ctx, span := uc.tracer.Start(ctx, "dispatch "+req.Resource+"."+action, trace.WithAttributes(
		attribute.String("freshservice.resource", req.Resource),
		attribute.String("freshservice.action", action),
		attribute.String("freshservice.dispatch_id", dispatchID),
	))
	defer span.End()

	log := uc.logger.With(
		slog.String("dispatch_id", dispatchID),
		slog.String("resource", req.Resource),
		slog.String("action", action),
	)

	result, err := uc.execute(ctx, req.Resource, action, req.Params.Clone(), log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUnknownAction) {
			log.Info("Rejected request", slog.Any("error", err))
		} else {
			log.Error("Dispatch failed", slog.Any("error", err))
		}
		return nil, err
	}
	return result, nil
}

func (uc *DispatchActionUseCase) execute(ctx context.Context, resource, action string, params domain.Params, log *slog.Logger) (*domain.DispatchResult, error) {
	// --- 1. Resolve rule --- //
	rule, ok := uc.rules.Rule(resource, action)
	if !ok {
		return nil, &domain.UnknownActionError{Resource: resource, Action: action, Valid: uc.rules.Actions(resource)}
	}

	// --- 2. Mandatory parameters --- //
	if missing := missingParams(rule, params); len(missing) > 0 {
		return nil, &domain.ValidationError{Missing: missing}
	}

	// --- 3. Live choice validation --- //
	if rule.UsesDynamicFields() && uc.fields != nil {
		entity := rule.FieldEntity
		if entity == "" {
			entity = rule.Resource
		}
		schema, err := uc.fields.Discover(ctx, entity)
		if err != nil {
			log.Warn("Field discovery unavailable, skipping choice validation", slog.Any("error", err))
		} else if err := validateChoices(schema, rule.ValidateChoices, params); err != nil {
			return nil, err
		}
	}

	// --- 4. Transform --- //
	p, err := buildPlan(rule, params)
	if err != nil {
		return nil, err
	}
	if len(p.dropped) > 0 {
		log.Debug("Dropped unrecognized parameters", slog.Any("params", p.dropped))
	}

	// --- 5. Execute --- //
	resp, err := uc.gateway.Call(ctx, p.first)
	if err != nil {
		return nil, err
	}
	last := resp
	if len(p.steps) > 0 {
		last, err = uc.followUp(ctx, rule, resp, p.steps, log)
		if err != nil {
			return nil, err
		}
	}

	// --- 6. Normalize --- //
	result := &domain.DispatchResult{Resource: resource, Action: action, Data: last.Payload}
	if isEmpty(last.Payload) {
		result.Data = nil
		result.Message = rule.SuccessMessage
		if result.Message == "" {
			result.Message = fmt.Sprintf("%s %s completed", resource, action)
		}
	}
	if rule.Paginated {
		pg := last.Pagination
		pg.CurrentPage, pg.PerPage = p.page, p.perPage
		result.Pagination = &pg
	}
	log.Info("Dispatched", slog.Int("status_code", last.StatusCode), slog.Int("calls", 1+len(p.steps)))
	return result, nil
}

// followUp runs the remaining steps of a multi-step write against the
// identifier created by the first call. Any failure stops the sequence.
func (uc *DispatchActionUseCase) followUp(ctx context.Context, rule domain.Rule, created *domain.Response, steps []plannedStep, log *slog.Logger) (*domain.Response, error) {
	id, ok := extractID(created.Payload)
	if !ok {
		return nil, &domain.PartialWriteError{
			Resource:   rule.Resource,
			FailedStep: 1,
			Err:        errors.New("created instance has no identifier"),
		}
	}
	log = log.With(slog.Any("id", id))

	last := created
	for i, st := range steps {
		step := i + 1
		if err := ctx.Err(); err != nil {
			return nil, &domain.PartialWriteError{Resource: rule.Resource, ID: id, CompletedSteps: i, FailedStep: step, Err: err}
		}
		path := strings.ReplaceAll(st.path, "{id}", formatScalar(id))
		resp, err := uc.gateway.Call(ctx, domain.Call{Method: st.method, Path: path, Body: st.body})
		if err != nil {
			log.Error("Follow-up step failed", slog.Int("step", step), slog.Any("error", err))
			return nil, &domain.PartialWriteError{Resource: rule.Resource, ID: id, CompletedSteps: i, FailedStep: step, Err: err}
		}
		if !isEmpty(resp.Payload) {
			last = resp
		}
	}
	return last, nil
}

// extractID finds the identifier of a created instance, either at the top
// level of the payload or inside a single wrapped object.
func extractID(payload any) (any, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	if id, ok := m["id"]; ok && !isEmpty(id) {
		return id, true
	}
	if len(m) == 1 {
		for _, v := range m {
			return extractID(v)
		}
	}
	return nil, false
}
