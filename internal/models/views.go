package models

// ApplicationView is the read-optimised projection of an application.
// It carries the full record plus derived read-model fields (quote counter
// maintained from the event stream) and guarantees non-nil child collections
// in API responses.
type ApplicationView struct {
	Application
	QuoteCount int64 `json:"quoteCount"`
}

// NewApplicationView builds a view over app, normalising nil child slices so
// the JSON form always serialises them as arrays.
func NewApplicationView(app *Application, quoteCount int64) *ApplicationView {
	view := &ApplicationView{Application: *app, QuoteCount: quoteCount}
	if view.Vehicles == nil {
		view.Vehicles = []Vehicle{}
	}
	if view.People == nil {
		view.People = []Person{}
	}
	return view
}
