package tools

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/config"
	"github.com/cloud-ru/mcp-finance-planner/internal/metrics"
	"github.com/cloud-ru/mcp-finance-planner/internal/prolabore"
	"github.com/cloud-ru/mcp-finance-planner/internal/repository"
	"github.com/cloud-ru/mcp-finance-planner/internal/simulation"
	"github.com/cloud-ru/mcp-finance-planner/internal/validators"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

type toolFunc func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error)

// instrument оборачивает инструмент спаном и счетчиками вызовов
func instrument(tracer trace.Tracer, toolName string, fn toolFunc) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()

		result, err := fn(ctx, span, params)
		if err != nil {
			kind := errorKind(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, kind)
			span.SetAttributes(attribute.String("error", kind+"_error"))
			metrics.ToolCalls.WithLabelValues(toolName, kind+"_error").Inc()
			metrics.CalculationErrors.WithLabelValues(toolName, kind).Inc()
			metrics.APICalls.WithLabelValues("mcp", toolName, "error").Inc()
			if kind == "validation" {
				return nil, fmt.Errorf("неверные параметры: %w", err)
			}
			return nil, fmt.Errorf("ошибка при выполнении %s: %w", toolName, err)
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", toolName, "success").Inc()
		return result, nil
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParams),
		calculations.IsValidationError(err),
		errors.Is(err, prolabore.ErrInvalidInput):
		return "validation"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, simulation.ErrEarlyPaymentNotFound):
		return "not_found"
	default:
		return "calculation"
	}
}

func termsAttributes(terms calculations.LoanTerms) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("total_price", terms.TotalPrice.String()),
		attribute.String("down_payment", terms.DownPayment.String()),
		attribute.String("monthly_rate", terms.MonthlyRate.String()),
		attribute.Int("months", terms.Months),
		attribute.String("system", string(terms.System)),
	}
}

// LoanScheduleHandler строит график платежей без сохранения
func LoanScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "loan_schedule", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		terms, err := loanTermsParams(params)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(termsAttributes(terms)...)

		if err := validators.CheckLoanTerms(cfg, terms); err != nil {
			return nil, err
		}
		result, err := calculations.Schedule(terms)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.String("first_payment", result.Summary.FirstPayment.String()),
			attribute.String("total_interest", result.Summary.TotalInterest.String()),
		)
		return result, nil
	})
}

// CompareSystemsHandler сравнивает SAC и PRICE для одних условий
func CompareSystemsHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "compare_systems", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		// система в параметрах не обязательна: считаются обе
		if _, ok := params["system"]; !ok {
			params = withDefault(params, "system", string(calculations.SystemSAC))
		}
		terms, err := loanTermsParams(params)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(termsAttributes(terms)...)

		if err := validators.CheckLoanTerms(cfg, terms); err != nil {
			return nil, err
		}
		result, err := calculations.CompareSystems(terms)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("cheaper_system", string(result.CheaperSystem)))
		return result, nil
	})
}

// SimulationCreateHandler создает и сохраняет симуляцию
func SimulationCreateHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "simulation_create", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		terms, err := loanTermsParams(params)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(termsAttributes(terms)...)

		sim, err := svc.Create(ctx, terms)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("simulation_id", sim.ID))
		return sim, nil
	})
}

// SimulationGetHandler возвращает сохраненную симуляцию
func SimulationGetHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "simulation_get", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		id, err := stringParam(params, "id")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("simulation_id", id))
		return svc.Get(ctx, id)
	})
}

// SimulationListHandler возвращает все симуляции
func SimulationListHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "simulation_list", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		sims, err := svc.List(ctx)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("count", len(sims)))
		return sims, nil
	})
}

// SimulationDeleteHandler удаляет симуляцию
func SimulationDeleteHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "simulation_delete", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		id, err := stringParam(params, "id")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("simulation_id", id))
		if err := svc.Delete(ctx, id); err != nil {
			return nil, err
		}
		return map[string]string{"deleted": id}, nil
	})
}

// EarlyPaymentAddHandler добавляет досрочный платеж и пересчитывает график
func EarlyPaymentAddHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "early_payment_add", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		simID, err := stringParam(params, "simulation_id")
		if err != nil {
			return nil, err
		}
		p, err := earlyPaymentParams(params)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.String("simulation_id", simID),
			attribute.String("amount", p.Amount.String()),
			attribute.String("policy", string(p.Policy)),
		)
		return svc.AddEarlyPayment(ctx, simID, p)
	})
}

// EarlyPaymentEditHandler изменяет досрочный платеж по id
func EarlyPaymentEditHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "early_payment_edit", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		simID, err := stringParam(params, "simulation_id")
		if err != nil {
			return nil, err
		}
		if _, err := stringParam(params, "id"); err != nil {
			return nil, err
		}
		p, err := earlyPaymentParams(params)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.String("simulation_id", simID),
			attribute.String("early_payment_id", p.ID),
		)
		return svc.EditEarlyPayment(ctx, simID, p)
	})
}

// EarlyPaymentDeleteHandler удаляет досрочный платеж по id
func EarlyPaymentDeleteHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "early_payment_delete", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		simID, err := stringParam(params, "simulation_id")
		if err != nil {
			return nil, err
		}
		id, err := stringParam(params, "id")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.String("simulation_id", simID),
			attribute.String("early_payment_id", id),
		)
		return svc.DeleteEarlyPayment(ctx, simID, id)
	})
}

// CompareSimulationsHandler сравнивает две сохраненные симуляции
func CompareSimulationsHandler(svc *simulation.Service, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "compare_simulations", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		a, err := stringParam(params, "a")
		if err != nil {
			return nil, err
		}
		b, err := stringParam(params, "b")
		if err != nil {
			return nil, err
		}
		cmp, err := svc.Compare(ctx, a, b)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("better_option", cmp.BetterOption))
		return cmp, nil
	})
}

// ProLaboreHandler рассчитывает рекомендованный про-лаборе
func ProLaboreHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "prolabore_calculate", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		in, err := proLaboreParams(params)
		if err != nil {
			return nil, err
		}
		result, err := prolabore.Calculate(in)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.String("maximum_recommended", result.MaximumRecommended.String()),
			attribute.String("status", string(result.Status)),
		)
		return result, nil
	})
}

func withDefault(params map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out[key] = value
	return out
}
