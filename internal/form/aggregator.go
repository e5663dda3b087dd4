package form

import (
	"context"
	"fmt"
	"strings"

	"cascade/form/internal/domain"

	log "github.com/sirupsen/logrus"
)

// RecordSelection appends an entry. Entries for a group already recorded are
// not replaced; the list keeps every choice in the order it was made.
func (f *Form) RecordSelection(entry domain.SelectionEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selections = append(f.selections, entry)
	log.Debugf("Recorded %s = %s (%d selections)", entry.Key, entry.Display(), len(f.selections))
}

// ResolveChoice turns a picked option of a displayed group into an entry.
// Picking the "other" option with non-blank text records the text instead.
// Groups are only on display while sub-categories are selected.
func (f *Form) ResolveChoice(groupName string, optionID int64, otherText string) (domain.SelectionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.selectedSubCategories) == 0 {
		return domain.SelectionEntry{}, fmt.Errorf("%w: %q, no sub-category selected", ErrUnknownGroup, groupName)
	}

	for _, group := range f.optionGroups {
		if group.Name != groupName {
			continue
		}

		option, ok := group.FindOption(optionID)
		if !ok {
			return domain.SelectionEntry{}, fmt.Errorf("%w: %d in group %q", ErrUnknownOption, optionID, groupName)
		}

		text := strings.TrimSpace(otherText)
		if option.Name == f.otherLabel && text != "" {
			return domain.TextEntry(group.Name, text), nil
		}
		return domain.OptionEntry(group.Name, option), nil
	}

	return domain.SelectionEntry{}, fmt.Errorf("%w: %q", ErrUnknownGroup, groupName)
}

// Submit freezes the current selections into the results table. It has no
// other side effect; nothing is sent or stored.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := fire(ctx, f.machine, EventSubmit); err != nil {
		return err
	}

	f.results = make([]domain.SelectionEntry, len(f.selections))
	copy(f.results, f.selections)

	log.Infof("📋 Form submitted with %d selections", len(f.results))
	return nil
}
