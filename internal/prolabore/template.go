package prolabore

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_template.yaml
var defaultTemplateYAML []byte

// ErrInvalidTemplate неверное описание шаблона отчета
var ErrInvalidTemplate = errors.New("invalid report template")

// FieldType тип значения поля шаблона
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeCurrency FieldType = "currency"
)

// TemplateField поле шаблона отчета
type TemplateField struct {
	ID       string    `yaml:"id" json:"id"`
	Label    string    `yaml:"label" json:"label"`
	Type     FieldType `yaml:"type" json:"type"`
	Required bool      `yaml:"required" json:"required"`
}

// Template упорядоченный набор полей отчета
type Template struct {
	Fields []TemplateField `yaml:"fields" json:"fields"`
}

// DefaultTemplate возвращает встроенный шаблон
func DefaultTemplate() (*Template, error) {
	return ParseTemplate(defaultTemplateYAML)
}

// LoadTemplate читает шаблон из YAML файла; пустой путь означает встроенный шаблон
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return ParseTemplate(data)
}

// ParseTemplate разбирает и проверяет YAML шаблон
func ParseTemplate(data []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Validate проверяет идентификаторы и типы полей
func (t *Template) Validate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidTemplate)
	}
	seen := make(map[string]bool, len(t.Fields))
	for i, f := range t.Fields {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("%w: field #%d has no id", ErrInvalidTemplate, i+1)
		}
		if seen[f.ID] {
			return fmt.Errorf("%w: duplicate field id %q", ErrInvalidTemplate, f.ID)
		}
		seen[f.ID] = true
		switch f.Type {
		case TypeText, TypeNumber, TypeDate, TypeCurrency:
		default:
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidTemplate, f.ID, f.Type)
		}
	}
	return nil
}

// CheckValues проверяет заполненность обязательных полей и формат значений
func (t *Template) CheckValues(values map[string]string) error {
	for _, f := range t.Fields {
		v := strings.TrimSpace(values[f.ID])
		if v == "" {
			if f.Required {
				return fmt.Errorf("%w: %q is required", ErrInvalidInput, f.Label)
			}
			continue
		}
		switch f.Type {
		case TypeNumber:
			if _, err := decimal.NewFromString(v); err != nil {
				return fmt.Errorf("%w: %q must be a number", ErrInvalidInput, f.Label)
			}
		case TypeCurrency:
			d, err := decimal.NewFromString(v)
			if err != nil || d.IsNegative() || !d.Equal(d.Round(2)) {
				return fmt.Errorf("%w: %q must be a non-negative amount in cents", ErrInvalidInput, f.Label)
			}
		case TypeDate:
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return fmt.Errorf("%w: %q must be a date YYYY-MM-DD", ErrInvalidInput, f.Label)
			}
		}
	}
	return nil
}
