package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/prolabore"
)

// ErrInvalidParams параметр отсутствует или имеет неверный тип
var ErrInvalidParams = errors.New("invalid parameter")

const dateLayout = "2006-01-02"

func invalidParam(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, name)
}

// decimalValue принимает json.Number, строку или число JSON
func decimalValue(name string, raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, invalidParam(name)
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, invalidParam(name)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	default:
		return decimal.Zero, invalidParam(name)
	}
}

func decimalParam(params map[string]interface{}, name string) (decimal.Decimal, error) {
	raw, ok := params[name]
	if !ok {
		return decimal.Zero, invalidParam(name)
	}
	return decimalValue(name, raw)
}

func optionalDecimalParam(params map[string]interface{}, name string) (decimal.Decimal, error) {
	if _, ok := params[name]; !ok {
		return decimal.Zero, nil
	}
	return decimalParam(params, name)
}

func intParam(params map[string]interface{}, name string) (int, error) {
	d, err := decimalParam(params, name)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, invalidParam(name)
	}
	return int(d.IntPart()), nil
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	s, ok := params[name].(string)
	if !ok || s == "" {
		return "", invalidParam(name)
	}
	return s, nil
}

func optionalStringParam(params map[string]interface{}, name string) string {
	s, _ := params[name].(string)
	return s
}

func dateParam(params map[string]interface{}, name string) (time.Time, error) {
	s, err := stringParam(params, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalidParam(name)
	}
	return t, nil
}

// loanTermsParams разбирает условия кредита
func loanTermsParams(params map[string]interface{}) (calculations.LoanTerms, error) {
	var terms calculations.LoanTerms
	var err error

	if terms.TotalPrice, err = decimalParam(params, "total_price"); err != nil {
		return terms, err
	}
	if terms.DownPayment, err = optionalDecimalParam(params, "down_payment"); err != nil {
		return terms, err
	}
	if terms.Months, err = intParam(params, "months"); err != nil {
		return terms, err
	}
	if terms.MonthlyRate, err = decimalParam(params, "monthly_rate"); err != nil {
		return terms, err
	}
	system, err := stringParam(params, "system")
	if err != nil {
		return terms, err
	}
	terms.System = calculations.AmortizationSystem(system)
	if terms.StartDate, err = dateParam(params, "start_date"); err != nil {
		return terms, err
	}
	terms.Bank = optionalStringParam(params, "bank")
	return terms, nil
}

// earlyPaymentParams разбирает досрочный платеж; id необязателен
func earlyPaymentParams(params map[string]interface{}) (calculations.EarlyPayment, error) {
	var p calculations.EarlyPayment
	var err error

	p.ID = optionalStringParam(params, "id")
	if p.Date, err = dateParam(params, "date"); err != nil {
		return p, err
	}
	if p.Amount, err = decimalParam(params, "amount"); err != nil {
		return p, err
	}
	policy, err := stringParam(params, "policy")
	if err != nil {
		return p, err
	}
	p.Policy = calculations.ReductionPolicy(policy)
	return p, nil
}

// proLaboreParams читает значения полей, сгруппированные по имени группы:
// {"revenue": {"services": 1000}, "fixed_costs": {...}, "variable_costs": {...}}
func proLaboreParams(params map[string]interface{}) (prolabore.Input, error) {
	in := prolabore.Input{}
	for _, g := range prolabore.Groups() {
		raw, ok := params[g.String()]
		if !ok {
			continue
		}
		values, ok := raw.(map[string]interface{})
		if !ok {
			return nil, invalidParam(g.String())
		}
		for key, v := range values {
			id := prolabore.FieldID(key)
			if fg, known := prolabore.GroupOf(id); !known || fg != g {
				return nil, invalidParam(g.String() + "." + key)
			}
			d, err := decimalValue(g.String()+"."+key, v)
			if err != nil {
				return nil, err
			}
			in[id] = d
		}
	}
	return in, nil
}
