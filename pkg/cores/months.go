// Package cores holds ready-made iterator cores and the facade types built
// from them: months of the year, slices, blocks and slice appenders.
package cores

import (
	"fmt"

	"github.com/KevoDB/iterfacade/pkg/iterators"
)

// Month is a month of the year, starting at January = 0
type Month int

const (
	January Month = iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (m Month) String() string {
	if m < January || m > December {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m]
}

// MonthCore walks the months by value. One past December is the end position.
type MonthCore struct {
	iterators.InputTag
	current Month
}

// NewMonthCore returns a core positioned at m
func NewMonthCore(m Month) MonthCore {
	return MonthCore{current: m}
}

func (c *MonthCore) Dereference() Month { return c.current }
func (c *MonthCore) Increment()         { c.current++ }
func (c *MonthCore) Decrement()         { c.current-- }

func (c *MonthCore) Equals(other MonthCore) bool {
	return c.current == other.current
}

// MonthIterator is an input iterator over months
type MonthIterator = iterators.Input[MonthCore, Month, *MonthCore]

// MonthRange returns iterators to January and one past December
func MonthRange() (begin, end MonthIterator) {
	return iterators.NewInput[MonthCore, Month](NewMonthCore(January)),
		iterators.NewInput[MonthCore, Month](NewMonthCore(December + 1))
}

// MonthWrapper is handed out by value by WrappedMonthCore. Member access on
// the iterator goes through a proxy holding one copy of it.
type MonthWrapper struct {
	month Month
}

// Month returns the wrapped month
func (w MonthWrapper) Month() Month {
	return w.month
}

// String returns the month name, or "Unknown" outside the year
func (w MonthWrapper) String() string {
	if w.month < January || w.month > December {
		return "Unknown"
	}
	return monthNames[w.month]
}

// WrappedMonthCore is MonthCore dereferencing to a freshly built MonthWrapper
type WrappedMonthCore struct {
	iterators.InputTag
	current Month
}

func (c *WrappedMonthCore) Dereference() MonthWrapper { return MonthWrapper{month: c.current} }
func (c *WrappedMonthCore) Increment()                { c.current++ }
func (c *WrappedMonthCore) Decrement()                { c.current-- }

func (c *WrappedMonthCore) Equals(other WrappedMonthCore) bool {
	return c.current == other.current
}

// WrappedMonthIterator is an input iterator over wrapped months
type WrappedMonthIterator = iterators.Input[WrappedMonthCore, MonthWrapper, *WrappedMonthCore]

// WrappedMonthRange returns iterators to January and one past December
func WrappedMonthRange() (begin, end WrappedMonthIterator) {
	return iterators.NewInput[WrappedMonthCore, MonthWrapper](WrappedMonthCore{current: January}),
		iterators.NewInput[WrappedMonthCore, MonthWrapper](WrappedMonthCore{current: December + 1})
}
