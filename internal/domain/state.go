package domain

type FormState string

func (s FormState) String() string {
	return string(s)
}

const (
	FormStateIdle               FormState = "idle"
	FormStateSubCategoryVisible FormState = "sub_category_visible"
	FormStateOptionsLoading     FormState = "options_loading"
	FormStateOptionsVisible     FormState = "options_visible"
	FormStateResultsShown       FormState = "results_shown"
)

func (s FormState) Title() string {
	switch s {
	case FormStateIdle:
		return "Select a category"
	case FormStateSubCategoryVisible:
		return "Select a sub-category"
	case FormStateOptionsLoading:
		return "Loading options"
	case FormStateOptionsVisible:
		return "Select options"
	case FormStateResultsShown:
		return "Results"
	default:
		return "Unknown"
	}
}
