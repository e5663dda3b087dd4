package form

import (
	"context"
	"sync"

	"cascade/form/internal/domain"

	"github.com/looplab/fsm"
)

// OptionsFetcher retrieves the option groups of a sub-category, each already
// carrying its synthetic "other" entry.
type OptionsFetcher interface {
	FetchOptionsFor(ctx context.Context, categoryID int) ([]domain.OptionGroup, error)
}

// Form is one cascading-selection form instance. All methods are safe for
// concurrent use; option fetches complete on their own goroutine.
type Form struct {
	mu      sync.Mutex
	machine *fsm.FSM
	fetcher OptionsFetcher

	otherLabel string

	categories            []domain.Category
	selectedCategory      *domain.Category
	subCategories         []domain.Category
	selectedSubCategories []domain.Category
	optionGroups          []domain.OptionGroup
	selections            []domain.SelectionEntry
	results               []domain.SelectionEntry

	inflight sync.WaitGroup
}

// Option configures a Form.
type Option func(*Form)

// WithOtherLabel names the synthetic option that accepts free text.
func WithOtherLabel(label string) Option {
	return func(f *Form) {
		if label != "" {
			f.otherLabel = label
		}
	}
}

// New starts an idle form over the given main categories. The tree is copied.
func New(categories []domain.Category, fetcher OptionsFetcher, opts ...Option) *Form {
	if categories == nil {
		categories = []domain.Category{}
	}

	f := &Form{
		machine:       newMachine(),
		fetcher:       fetcher,
		otherLabel:    domain.OtherOptionName,
		categories:    domain.CloneCategories(categories),
		subCategories: []domain.Category{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state of the form's machine.
func (f *Form) State() domain.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.FormState(f.machine.Current())
}

// Wait blocks until every option fetch issued so far has landed.
func (f *Form) Wait() {
	f.inflight.Wait()
}

// Snapshot is a copy of the form's state for rendering.
type Snapshot struct {
	State                 domain.FormState        `json:"state"`
	Categories            []domain.Category       `json:"categories"`
	SelectedCategory      *domain.Category        `json:"selected_category,omitempty"`
	SubCategories         []domain.Category       `json:"sub_categories"`
	SelectedSubCategories []domain.Category       `json:"selected_sub_categories"`
	OptionGroups          []domain.OptionGroup    `json:"option_groups"`
	Selections            []domain.SelectionEntry `json:"selections"`
	Results               []domain.SelectionEntry `json:"results"`
	Submitted             bool                    `json:"submitted"`
	OtherLabel            string                  `json:"other_label"`
}

// Snapshot copies the form's state under its lock.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		State:                 domain.FormState(f.machine.Current()),
		Categories:            domain.CloneCategories(f.categories),
		SubCategories:         domain.CloneCategories(f.subCategories),
		SelectedSubCategories: domain.CloneCategories(f.selectedSubCategories),
		OptionGroups:          cloneGroups(f.optionGroups),
		Selections:            cloneEntries(f.selections),
		Results:               cloneEntries(f.results),
		Submitted:             f.results != nil,
		OtherLabel:            f.otherLabel,
	}
	if f.selectedCategory != nil {
		selected := domain.CloneCategories([]domain.Category{*f.selectedCategory})[0]
		snap.SelectedCategory = &selected
	}
	return snap
}

func (s Snapshot) ShowSubCategories() bool {
	return s.SelectedCategory != nil
}

func (s Snapshot) ShowOptions() bool {
	return len(s.SelectedSubCategories) > 0
}

func (s Snapshot) Loading() bool {
	return s.State == domain.FormStateOptionsLoading
}

func (s Snapshot) IsSelectedCategory(id int) bool {
	return s.SelectedCategory != nil && s.SelectedCategory.ID == id
}

func (s Snapshot) IsSelectedSubCategory(id int) bool {
	_, ok := domain.FindCategory(s.SelectedSubCategories, id)
	return ok
}

func cloneGroups(groups []domain.OptionGroup) []domain.OptionGroup {
	if groups == nil {
		return nil
	}
	out := make([]domain.OptionGroup, len(groups))
	for i, g := range groups {
		out[i] = domain.OptionGroup{
			ID:      g.ID,
			Name:    g.Name,
			Options: append([]domain.Option(nil), g.Options...),
		}
	}
	return out
}

func cloneEntries(entries []domain.SelectionEntry) []domain.SelectionEntry {
	if entries == nil {
		return nil
	}
	out := make([]domain.SelectionEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.Option != nil {
			opt := *e.Option
			out[i].Option = &opt
		}
	}
	return out
}
