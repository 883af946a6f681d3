package prolabore

// FieldGroup группа полей калькулятора про-лаборе
type FieldGroup int

const (
	// Revenue выручка по источникам, в деньгах
	Revenue FieldGroup = iota
	// FixedCosts постоянные расходы, в деньгах
	FixedCosts
	// VariableCosts переменные расходы, в процентах от выручки
	VariableCosts
)

func (g FieldGroup) String() string {
	switch g {
	case Revenue:
		return "revenue"
	case FixedCosts:
		return "fixed_costs"
	case VariableCosts:
		return "variable_costs"
	default:
		return "unknown"
	}
}

// FieldID идентификатор поля ввода
type FieldID string

const (
	RevenueServices FieldID = "services"
	RevenueProducts FieldID = "products"
	RevenueOthers   FieldID = "revenue_others"

	FixedMonthly   FieldID = "monthly"
	FixedProLabore FieldID = "pro_labore"

	VariableSales      FieldID = "sales"
	VariableTaxes      FieldID = "taxes"
	VariableCardFees   FieldID = "card_fees"
	VariableReturns    FieldID = "returns"
	VariableCommission FieldID = "commission"
	VariableOthers     FieldID = "variable_others"
)

var groupFields = map[FieldGroup][]FieldID{
	Revenue:       {RevenueServices, RevenueProducts, RevenueOthers},
	FixedCosts:    {FixedMonthly, FixedProLabore},
	VariableCosts: {VariableSales, VariableTaxes, VariableCardFees, VariableReturns, VariableCommission, VariableOthers},
}

var fieldGroup = func() map[FieldID]FieldGroup {
	m := make(map[FieldID]FieldGroup)
	for g, ids := range groupFields {
		for _, id := range ids {
			m[id] = g
		}
	}
	return m
}()

// Groups возвращает группы в порядке отображения
func Groups() []FieldGroup {
	return []FieldGroup{Revenue, FixedCosts, VariableCosts}
}

// Fields возвращает поля группы в порядке отображения
func Fields(g FieldGroup) []FieldID {
	return append([]FieldID(nil), groupFields[g]...)
}

// GroupOf возвращает группу поля
func GroupOf(id FieldID) (FieldGroup, bool) {
	g, ok := fieldGroup[id]
	return g, ok
}
