package form

import (
	"context"

	"cascade/form/internal/domain"

	log "github.com/sirupsen/logrus"
)

// fetchOptions lands one option fetch. Whichever response arrives last wins;
// there is no sequence check against newer selections.
func (f *Form) fetchOptions(ctx context.Context, categoryID int) {
	defer f.inflight.Done()

	groups, err := f.fetcher.FetchOptionsFor(ctx, categoryID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		log.Errorf("❌ Error fetching options for category %d: %v", categoryID, err)
		if f.machine.Can(EventOptionsFailed) {
			if err := fire(ctx, f.machine, EventOptionsFailed); err != nil {
				log.Warnf("⚠️ %v", err)
			}
		}
		return
	}

	if groups == nil {
		groups = []domain.OptionGroup{}
	}
	f.optionGroups = groups

	if len(f.selectedSubCategories) > 0 && f.machine.Can(EventOptionsLoaded) {
		if err := fire(ctx, f.machine, EventOptionsLoaded); err != nil {
			log.Warnf("⚠️ %v", err)
		}
	}

	log.Debugf("Loaded %d option groups for category %d", len(groups), categoryID)
}
