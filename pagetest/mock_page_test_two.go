package pagetest

import "context"

// MockPageTestTwo is a page test that runs RunBar and measures nothing.
type MockPageTestTwo struct {
	Base
}

var _ PageTest = (*MockPageTestTwo)(nil)

func NewMockPageTestTwo() *MockPageTestTwo {
	return &MockPageTestTwo{
		Base: NewBase("RunBar"),
	}
}

func (m *MockPageTestTwo) ValidateAndMeasurePage(context.Context, Page, Tab, Results) error {
	return nil
}
