package tools

import (
	"sort"

	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-finance-planner/internal/config"
	"github.com/cloud-ru/mcp-finance-planner/internal/simulation"
)

// Registry инструменты по имени
type Registry map[string]ToolHandler

// NewRegistry регистрирует все инструменты сервера
func NewRegistry(cfg *config.Config, svc *simulation.Service, tracer trace.Tracer) Registry {
	return Registry{
		"loan_schedule":        LoanScheduleHandler(cfg, tracer),
		"compare_systems":      CompareSystemsHandler(cfg, tracer),
		"simulation_create":    SimulationCreateHandler(svc, tracer),
		"simulation_get":       SimulationGetHandler(svc, tracer),
		"simulation_list":      SimulationListHandler(svc, tracer),
		"simulation_delete":    SimulationDeleteHandler(svc, tracer),
		"early_payment_add":    EarlyPaymentAddHandler(svc, tracer),
		"early_payment_edit":   EarlyPaymentEditHandler(svc, tracer),
		"early_payment_delete": EarlyPaymentDeleteHandler(svc, tracer),
		"compare_simulations":  CompareSimulationsHandler(svc, tracer),
		"prolabore_calculate":  ProLaboreHandler(tracer),
	}
}

// Names возвращает имена инструментов в алфавитном порядке
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
