package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SalaryKind tags which variant a Salary holds.
type SalaryKind string

const (
	SalaryUnspecified SalaryKind = "unspecified"
	SalaryNumeric     SalaryKind = "numeric"
	SalaryDescriptive SalaryKind = "descriptive"
)

// Salary is either a numeric amount, a free-text descriptor ("negotiable",
// "20k-30k") or unspecified. Only the field matching Kind is meaningful.
type Salary struct {
	Kind   SalaryKind `json:"kind" gorm:"type:varchar(20);not null;default:unspecified"`
	Amount *float64   `json:"amount,omitempty"`
	Text   string     `json:"text,omitempty" gorm:"type:varchar(255)"`
}

// NumericSalary builds the numeric variant.
func NumericSalary(amount float64) Salary {
	return Salary{Kind: SalaryNumeric, Amount: &amount}
}

// DescriptiveSalary builds the descriptive variant. Blank text is unspecified.
func DescriptiveSalary(text string) Salary {
	text = strings.TrimSpace(text)
	if text == "" {
		return Salary{Kind: SalaryUnspecified}
	}
	return Salary{Kind: SalaryDescriptive, Text: text}
}

// IsNumeric reports whether the salary carries an amount.
func (s Salary) IsNumeric() bool {
	return s.Kind == SalaryNumeric && s.Amount != nil
}

// Normalize fills the zero value as unspecified and clears fields of other variants.
func (s Salary) Normalize() Salary {
	switch s.Kind {
	case SalaryNumeric:
		if s.Amount == nil {
			return Salary{Kind: SalaryUnspecified}
		}
		return Salary{Kind: SalaryNumeric, Amount: s.Amount}
	case SalaryDescriptive:
		return DescriptiveSalary(s.Text)
	default:
		return Salary{Kind: SalaryUnspecified}
	}
}

// UnmarshalJSON accepts a number, a string, null, or the tagged object form.
func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Salary{Kind: SalaryUnspecified}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = DescriptiveSalary(text)
		return nil
	case '{':
		type tagged Salary
		var t tagged
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&t); err != nil {
			return fmt.Errorf("invalid salary object: %w", err)
		}
		switch t.Kind {
		case SalaryNumeric:
			if t.Amount == nil {
				return fmt.Errorf("numeric salary requires an amount")
			}
		case SalaryDescriptive, SalaryUnspecified, "":
		default:
			return fmt.Errorf("unknown salary kind %q", t.Kind)
		}
		*s = Salary(t).Normalize()
		return nil
	default:
		var amount float64
		if err := json.Unmarshal(data, &amount); err != nil {
			return fmt.Errorf("salary must be a number, a string or an object: %w", err)
		}
		*s = NumericSalary(amount)
		return nil
	}
}

// MarshalJSON always emits the tagged object form.
func (s Salary) MarshalJSON() ([]byte, error) {
	type tagged Salary
	return json.Marshal(tagged(s.Normalize()))
}
