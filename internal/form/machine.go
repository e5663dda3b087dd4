package form

import (
	"context"
	"errors"
	"fmt"

	"cascade/form/internal/domain"

	"github.com/looplab/fsm"
	log "github.com/sirupsen/logrus"
)

const (
	EventSelectMain    = "select_main"
	EventClearMain     = "clear_main"
	EventSelectSub     = "select_sub"
	EventClearSub      = "clear_sub"
	EventOptionsLoaded = "options_loaded"
	EventOptionsFailed = "options_failed"
	EventSubmit        = "submit"
)

var allStates = []string{
	domain.FormStateIdle.String(),
	domain.FormStateSubCategoryVisible.String(),
	domain.FormStateOptionsLoading.String(),
	domain.FormStateOptionsVisible.String(),
	domain.FormStateResultsShown.String(),
}

// withMainCategory are the states reachable once a main category is chosen.
var withMainCategory = []string{
	domain.FormStateSubCategoryVisible.String(),
	domain.FormStateOptionsLoading.String(),
	domain.FormStateOptionsVisible.String(),
	domain.FormStateResultsShown.String(),
}

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		domain.FormStateIdle.String(),
		fsm.Events{
			{Name: EventSelectMain, Src: allStates, Dst: domain.FormStateSubCategoryVisible.String()},
			{Name: EventClearMain, Src: allStates, Dst: domain.FormStateIdle.String()},
			{Name: EventSelectSub, Src: withMainCategory, Dst: domain.FormStateOptionsLoading.String()},
			{Name: EventClearSub, Src: withMainCategory, Dst: domain.FormStateSubCategoryVisible.String()},
			// a response can land after a failed sibling fetch already moved the form back
			{Name: EventOptionsLoaded, Src: []string{
				domain.FormStateOptionsLoading.String(),
				domain.FormStateSubCategoryVisible.String(),
			}, Dst: domain.FormStateOptionsVisible.String()},
			{Name: EventOptionsFailed, Src: []string{domain.FormStateOptionsLoading.String()}, Dst: domain.FormStateSubCategoryVisible.String()},
			{Name: EventSubmit, Src: allStates, Dst: domain.FormStateResultsShown.String()},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debugf("Form moved from %s to %s on %s", e.Src, e.Dst, e.Event)
			},
		},
	)
}

// fire sends an event and treats a self-transition as success.
func fire(ctx context.Context, machine *fsm.FSM, event string) error {
	err := machine.Event(ctx, event)
	if err == nil {
		return nil
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}

	return fmt.Errorf("%w: %s from %s: %v", ErrInvalidTransition, event, machine.Current(), err)
}
