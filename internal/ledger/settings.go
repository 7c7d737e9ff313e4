package ledger

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("ledger: name must not be empty")
	ErrDuplicateName = errors.New("ledger: name already in use")
	ErrUnknownName   = errors.New("ledger: no such name")
)

// Settings is the per-user singleton configuration document. Category and
// method lists are ordered and unique; uniqueness is enforced by the
// mutation helpers, not by the store.
type Settings struct {
	IncomeCategories    []string                   `json:"incomeCategories"`
	ExpenseCategories   []string                   `json:"expenseCategories"`
	IncomeMethods       []string                   `json:"incomeMethods"`
	ExpenseMethods      []string                   `json:"expenseMethods"`
	ExcludedFromReports []string                   `json:"excludedFromReports"`
	CategoryBudgets     map[string]decimal.Decimal `json:"categoryBudgets"`
	Theme               string                     `json:"theme"`
}

// DefaultSettings are the lists seeded for a user on first access. The
// names match what the product ships with.
func DefaultSettings() Settings {
	return Settings{
		IncomeCategories:    []string{"Maaş", "Ek İş", "Yatırım", "Diğer"},
		ExpenseCategories:   []string{"Kira", "Market", "Yemek", "Ulaşım", "Faturalar", "Eğlence", "Sağlık", "Diğer"},
		IncomeMethods:       []string{"Havale", "ATM Para Yatırma", "Nakit", "Diğer"},
		ExpenseMethods:      []string{"Kredi Kartı", "Nakit", "FAST", "ATM Para Çekme", "Diğer"},
		ExcludedFromReports: []string{},
		CategoryBudgets:     map[string]decimal.Decimal{},
		Theme:               "light",
	}
}

// Clone returns a deep copy so callers can mutate without aliasing the
// cached document.
func (s Settings) Clone() Settings {
	out := s
	out.IncomeCategories = append([]string(nil), s.IncomeCategories...)
	out.ExpenseCategories = append([]string(nil), s.ExpenseCategories...)
	out.IncomeMethods = append([]string(nil), s.IncomeMethods...)
	out.ExpenseMethods = append([]string(nil), s.ExpenseMethods...)
	out.ExcludedFromReports = append([]string(nil), s.ExcludedFromReports...)
	out.CategoryBudgets = make(map[string]decimal.Decimal, len(s.CategoryBudgets))
	for k, v := range s.CategoryBudgets {
		out.CategoryBudgets[k] = v
	}
	return out
}

// Categories returns the category list for the given transaction type.
func (s *Settings) Categories(typ Type) []string {
	if typ == TypeIncome {
		return s.IncomeCategories
	}
	return s.ExpenseCategories
}

// Methods returns the payment-method list for the given transaction type.
func (s *Settings) Methods(typ Type) []string {
	if typ == TypeIncome {
		return s.IncomeMethods
	}
	return s.ExpenseMethods
}

func addUnique(list []string, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return list, ErrEmptyName
	}
	for _, item := range list {
		if item == name {
			return list, ErrDuplicateName
		}
	}
	return append(list, name), nil
}

func rename(list []string, oldName, newName string) ([]string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return list, ErrEmptyName
	}
	for _, item := range list {
		if item == newName {
			return list, ErrDuplicateName
		}
	}
	for i, item := range list {
		if item == oldName {
			out := append([]string(nil), list...)
			out[i] = newName
			return out, nil
		}
	}
	return list, ErrUnknownName
}

func remove(list []string, name string) ([]string, bool) {
	for i, item := range list {
		if item == name {
			return append(append([]string(nil), list[:i]...), list[i+1:]...), true
		}
	}
	return list, false
}

// AddCategory appends a unique category name to the list for typ.
func (s *Settings) AddCategory(typ Type, name string) error {
	list, err := addUnique(s.Categories(typ), name)
	if err != nil {
		return err
	}
	s.setCategories(typ, list)
	return nil
}

// RenameCategory replaces oldName with newName in the list for typ.
func (s *Settings) RenameCategory(typ Type, oldName, newName string) error {
	list, err := rename(s.Categories(typ), oldName, newName)
	if err != nil {
		return err
	}
	s.setCategories(typ, list)
	return nil
}

// RemoveCategory drops the category and cascades the removal into the
// report exclusion list and the budget map. Stored transactions keep the
// name; only the configured list shrinks.
func (s *Settings) RemoveCategory(typ Type, name string) error {
	list, ok := remove(s.Categories(typ), name)
	if !ok {
		return ErrUnknownName
	}
	s.setCategories(typ, list)
	s.ExcludedFromReports, _ = remove(s.ExcludedFromReports, name)
	delete(s.CategoryBudgets, name)
	return nil
}

// AddMethod appends a unique payment-method name to the list for typ.
func (s *Settings) AddMethod(typ Type, name string) error {
	list, err := addUnique(s.Methods(typ), name)
	if err != nil {
		return err
	}
	s.setMethods(typ, list)
	return nil
}

// RenameMethod replaces oldName with newName in the list for typ.
func (s *Settings) RenameMethod(typ Type, oldName, newName string) error {
	list, err := rename(s.Methods(typ), oldName, newName)
	if err != nil {
		return err
	}
	s.setMethods(typ, list)
	return nil
}

// RemoveMethod drops the payment method from the configured list.
func (s *Settings) RemoveMethod(typ Type, name string) error {
	list, ok := remove(s.Methods(typ), name)
	if !ok {
		return ErrUnknownName
	}
	s.setMethods(typ, list)
	return nil
}

func (s *Settings) setCategories(typ Type, list []string) {
	if typ == TypeIncome {
		s.IncomeCategories = list
	} else {
		s.ExpenseCategories = list
	}
}

func (s *Settings) setMethods(typ Type, list []string) {
	if typ == TypeIncome {
		s.IncomeMethods = list
	} else {
		s.ExpenseMethods = list
	}
}

// SetBudget records a monthly budget for an expense category. A zero or
// negative amount is equivalent to no budget and prunes the entry.
func (s *Settings) SetBudget(category string, amount decimal.Decimal) {
	if s.CategoryBudgets == nil {
		s.CategoryBudgets = map[string]decimal.Decimal{}
	}
	if amount.IsPositive() {
		s.CategoryBudgets[category] = amount
	} else {
		delete(s.CategoryBudgets, category)
	}
}

// RemoveBudget clears the budget for a category.
func (s *Settings) RemoveBudget(category string) {
	delete(s.CategoryBudgets, category)
}

// IsExcluded reports whether a category is excluded from report aggregates.
func (s *Settings) IsExcluded(category string) bool {
	for _, name := range s.ExcludedFromReports {
		if name == category {
			return true
		}
	}
	return false
}

// SettingsPatch is the shallow-merge shape used by the import path. A nil
// field means the stored value is preserved; a non-nil field overwrites the
// stored top-level value wholesale.
type SettingsPatch struct {
	IncomeCategories    *[]string                   `json:"incomeCategories"`
	ExpenseCategories   *[]string                   `json:"expenseCategories"`
	IncomeMethods       *[]string                   `json:"incomeMethods"`
	ExpenseMethods      *[]string                   `json:"expenseMethods"`
	ExcludedFromReports *[]string                   `json:"excludedFromReports"`
	CategoryBudgets     *map[string]decimal.Decimal `json:"categoryBudgets"`
	Theme               *string                     `json:"theme"`
}

// Apply merges the patch into s, top-level key by top-level key.
func (p SettingsPatch) Apply(s *Settings) {
	if p.IncomeCategories != nil {
		s.IncomeCategories = *p.IncomeCategories
	}
	if p.ExpenseCategories != nil {
		s.ExpenseCategories = *p.ExpenseCategories
	}
	if p.IncomeMethods != nil {
		s.IncomeMethods = *p.IncomeMethods
	}
	if p.ExpenseMethods != nil {
		s.ExpenseMethods = *p.ExpenseMethods
	}
	if p.ExcludedFromReports != nil {
		s.ExcludedFromReports = *p.ExcludedFromReports
	}
	if p.CategoryBudgets != nil {
		s.CategoryBudgets = *p.CategoryBudgets
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
}
