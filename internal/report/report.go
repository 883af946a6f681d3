package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/prolabore"
	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

const dateLayout = "02/01/2006"

var (
	scheduleHeaders = []string{"Nº", "Vencimento", "Parcela", "Amortização", "Juros", "Saldo devedor"}
	scheduleWidths  = []float64{14, 30, 34, 34, 34, 34}
)

var policyLabels = map[calculations.ReductionPolicy]string{
	calculations.ReduceInstallment: "Reduzir parcela",
	calculations.ReduceTerm:        "Reduzir prazo",
}

// Generator формирует PDF отчеты; now задает отметку времени в заголовке
type Generator struct {
	now func() time.Time
}

// NewGenerator создает генератор отчетов
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// SimulationPDF отчет по симуляции: условия, итоги, досрочные платежи и график
func (g *Generator) SimulationPDF(sim *calculations.Simulation) ([]byte, error) {
	if sim == nil {
		return nil, fmt.Errorf("simulation is required")
	}
	terms := sim.Terms
	subtitle := fmt.Sprintf("Sistema %s", sim.System)
	if terms.Bank != "" {
		subtitle += " - " + terms.Bank
	}
	r := newPDFReport("Simulação de Financiamento", subtitle, g.now())

	r.drawSectionHeader("Valores da compra")
	r.drawKeyValue("Valor do bem", utils.FormatBRL(terms.TotalPrice))
	r.drawKeyValue("Entrada", utils.FormatBRL(terms.DownPayment))
	r.drawKeyValue("Valor financiado", utils.FormatBRL(terms.FinancedAmount()))

	r.drawSectionHeader("Custos do financiamento")
	r.drawKeyValue("Taxa de juros mensal", utils.FormatPercent(terms.MonthlyRate))
	r.drawKeyValue("Prazo", fmt.Sprintf("%d meses", terms.Months))
	r.drawKeyValue("Início", terms.StartDate.Format(dateLayout))
	r.drawKeyValue("Total de juros", utils.FormatBRL(sim.Summary.TotalInterest))

	r.drawSectionHeader("Resumo")
	r.drawCards([][2]string{
		{"Primeira parcela", utils.FormatBRL(sim.Summary.FirstPayment)},
		{"Última parcela", utils.FormatBRL(sim.Summary.LastPayment)},
		{"Parcela média", utils.FormatBRL(sim.Summary.AveragePayment)},
		{"Custo total", utils.FormatBRL(sim.Summary.TotalAmount)},
	})

	if len(sim.EarlyPayments) > 0 {
		r.drawSectionHeader("Amortizações extraordinárias")
		rows := make([][]string, 0, len(sim.EarlyPayments))
		for i, p := range sim.EarlyPayments {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				p.Date.Format(dateLayout),
				utils.FormatBRL(p.Amount),
				policyLabels[p.Policy],
			})
		}
		r.table([]string{"Nº", "Data", "Valor", "Tipo"}, []float64{14, 40, 60, 66}, rows, nil)
	}

	r.drawSectionHeader("Tabela de parcelas")
	rows := make([][]string, 0, len(sim.Installments))
	for _, inst := range sim.Installments {
		number := strconv.Itoa(inst.Number)
		if inst.IsEarlyPayment() {
			number = "Extra"
		}
		rows = append(rows, []string{
			number,
			inst.DueDate.Format(dateLayout),
			utils.FormatBRL(inst.Payment),
			utils.FormatBRL(inst.Amortization),
			utils.FormatBRL(inst.Interest),
			utils.FormatBRL(inst.Balance),
		})
	}
	r.table(scheduleHeaders, scheduleWidths, rows, func(i int) bool {
		return sim.Installments[i].IsEarlyPayment()
	})

	return r.bytes()
}

// ComparisonPDF отчет сравнения двух симуляций
func (g *Generator) ComparisonPDF(cmp *calculations.SimulationComparison) ([]byte, error) {
	if cmp == nil || cmp.A == nil || cmp.B == nil {
		return nil, fmt.Errorf("comparison with two simulations is required")
	}
	r := newPDFReport("Comparação de Simulações",
		fmt.Sprintf("A: %s (%s)  x  B: %s (%s)", cmp.A.Terms.Bank, cmp.A.System, cmp.B.Terms.Bank, cmp.B.System),
		g.now())

	r.drawSectionHeader("Diferenças (A - B)")
	r.drawKeyValue("Total de juros", utils.FormatBRL(cmp.TotalInterestDiff))
	r.drawKeyValue("Custo total", utils.FormatBRL(cmp.TotalAmountDiff))
	r.drawKeyValue("Primeira parcela", utils.FormatBRL(cmp.FirstPaymentDiff))
	r.drawKeyValue("Última parcela", utils.FormatBRL(cmp.LastPaymentDiff))
	r.drawKeyValue("Parcela média", utils.FormatBRL(cmp.AveragePaymentDiff))

	verdict := "Empate"
	switch cmp.BetterOption {
	case calculations.OptionA:
		verdict = "Simulação A"
	case calculations.OptionB:
		verdict = "Simulação B"
	}
	r.drawCards([][2]string{
		{"Juros A", utils.FormatBRL(cmp.A.Summary.TotalInterest)},
		{"Juros B", utils.FormatBRL(cmp.B.Summary.TotalInterest)},
		{"Melhor opção", verdict},
	})

	r.drawSectionHeader("Parcelas")
	rows := make([][]string, 0, len(cmp.Installments))
	for _, d := range cmp.Installments {
		rows = append(rows, []string{
			strconv.Itoa(d.Number),
			utils.FormatBRL(d.PaymentA),
			utils.FormatBRL(d.PaymentB),
			utils.FormatBRL(d.Diff),
		})
	}
	r.table([]string{"Nº", "Parcela A", "Parcela B", "Diferença"}, []float64{18, 54, 54, 54}, rows, nil)

	return r.bytes()
}

// ProLaborePDF отчет о про-лаборе: поля шаблона и результат расчета
func (g *Generator) ProLaborePDF(tpl *prolabore.Template, values map[string]string, result *prolabore.Result) ([]byte, error) {
	if tpl == nil || result == nil {
		return nil, fmt.Errorf("template and result are required")
	}
	if err := tpl.CheckValues(values); err != nil {
		return nil, err
	}

	r := newPDFReport("Cálculo de Pró-labore", "", g.now())

	r.drawSectionHeader("Dados")
	for _, f := range tpl.Fields {
		r.drawKeyValue(f.Label, fieldValue(f, values[f.ID]))
	}

	r.drawSectionHeader("Resultado")
	r.drawKeyValue("Faturamento total", utils.FormatBRL(result.TotalRevenue))
	r.drawKeyValue("Custos variáveis", utils.FormatPercent(result.VariableCostRate))
	r.drawKeyValue("Custos fixos mensais", utils.FormatBRL(result.FixedCosts))
	r.drawKeyValue("Cálculo preliminar", utils.FormatBRL(result.Preliminary))
	r.drawCards([][2]string{
		{"Máximo recomendado", utils.FormatBRL(result.MaximumRecommended)},
		{"Pró-labore atual", utils.FormatBRL(result.CurrentProLabore)},
		{"Situação", statusLabels[result.Status]},
	})

	return r.bytes()
}

func fieldValue(f prolabore.TemplateField, v string) string {
	if v == "" {
		return "-"
	}
	switch f.Type {
	case prolabore.TypeDate:
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t.Format(dateLayout)
		}
	case prolabore.TypeCurrency:
		if amount, err := decimal.NewFromString(v); err == nil {
			return utils.FormatBRL(amount)
		}
	}
	return v
}

var statusLabels = map[prolabore.Status]string{
	prolabore.StatusWithin:   "Dentro do limite",
	prolabore.StatusAbove:    "Acima do limite",
	prolabore.StatusNoMargin: "Sem margem",
}
