package form

import (
	"context"
	"fmt"

	"cascade/form/internal/domain"

	log "github.com/sirupsen/logrus"
)

// MainCategory looks up a main category by id.
func (f *Form) MainCategory(id int) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	category, ok := domain.FindCategory(f.categories, id)
	if !ok {
		return domain.Category{}, fmt.Errorf("%w: main category %d", ErrUnknownCategory, id)
	}
	return domain.CloneCategories([]domain.Category{category})[0], nil
}

// SubCategories resolves ids against the sub-categories currently on offer,
// keeping the order the ids were given in.
func (f *Form) SubCategories(ids []int) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		sub, ok := domain.FindCategory(f.subCategories, id)
		if !ok {
			return nil, fmt.Errorf("%w: sub-category %d", ErrUnknownCategory, id)
		}
		out = append(out, sub)
	}
	return out, nil
}

// SelectMainCategory offers the category's children as sub-categories and drops
// everything chosen below it. A nil category resets the form. Results of a
// previous submit are kept.
func (f *Form) SelectMainCategory(ctx context.Context, category *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event := EventSelectMain
	if category == nil {
		event = EventClearMain
	}
	if err := fire(ctx, f.machine, event); err != nil {
		return err
	}

	f.selectedSubCategories = []domain.Category{}
	f.optionGroups = []domain.OptionGroup{}
	f.selections = nil

	if category == nil {
		f.selectedCategory = nil
		f.subCategories = []domain.Category{}
		log.Debug("Main category cleared")
		return nil
	}

	selected := domain.CloneCategories([]domain.Category{*category})[0]
	f.selectedCategory = &selected
	f.subCategories = []domain.Category{}
	if category.HasChildren() {
		f.subCategories = domain.CloneCategories(category.Children)
	}

	log.Debugf("Main category %d (%s) selected with %d sub-categories", category.ID, category.Name, len(f.subCategories))
	return nil
}

// SelectSubCategories replaces the sub-category selection and rebuilds the
// option groups from scratch. It fails with ErrInvalidTransition until a main
// category is chosen. A non-empty selection issues one fetch for its
// last element, the most recently picked sub-category. The fetch is not tied
// to ctx's cancellation and is never cancelled by a later selection.
func (f *Form) SelectSubCategories(ctx context.Context, subCategories []domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event := EventSelectSub
	if len(subCategories) == 0 {
		event = EventClearSub
	}
	// results_shown is reachable from idle, so the machine alone cannot tell
	if f.selectedCategory == nil {
		return fmt.Errorf("%w: %s from %s without a main category", ErrInvalidTransition, event, f.machine.Current())
	}
	if err := fire(ctx, f.machine, event); err != nil {
		return err
	}

	f.selectedSubCategories = domain.CloneCategories(subCategories)
	if f.selectedSubCategories == nil {
		f.selectedSubCategories = []domain.Category{}
	}
	f.optionGroups = []domain.OptionGroup{}

	if len(subCategories) == 0 {
		return nil
	}

	target := subCategories[len(subCategories)-1].ID
	f.inflight.Add(1)
	go f.fetchOptions(context.WithoutCancel(ctx), target)

	return nil
}
