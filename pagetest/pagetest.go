// Package pagetest defines the capability a page test plugs into a page
// runner with: a named action to run on each page, and a hook that
// validates the page and records measurements.
package pagetest

import "context"

// Page identifies the page under test.
type Page struct {
	Name string
	URL  string
}

// Tab is the browser tab a page was loaded in.
type Tab interface {
	ID() string
}

// Results collects measurements for a page.
type Results interface {
	Add(name string, value any)
}

// PageTest is implemented by every page test.
type PageTest interface {
	// ActionNameToRun returns the name of the page action to run before
	// the page is validated.
	ActionNameToRun() string

	// ValidateAndMeasurePage checks the loaded page and reports its
	// measurements to results.
	ValidateAndMeasurePage(ctx context.Context, page Page, tab Tab, results Results) error
}

// Base holds the action name shared by page test implementations.
type Base struct {
	actionName string
}

func NewBase(actionName string) Base {
	return Base{actionName: actionName}
}

func (b Base) ActionNameToRun() string {
	return b.actionName
}
