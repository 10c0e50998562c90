// Package catalog holds the fixed reference lists offered by the review form.
package catalog

// List is an ordered, read-only set of labels
type List struct {
	items []string
}

// NewList creates a List from the given labels
func NewList(items ...string) List {
	cp := make([]string, len(items))
	copy(cp, items)
	return List{items: cp}
}

// Items returns a copy of the labels in order
func (l List) Items() []string {
	cp := make([]string, len(l.items))
	copy(cp, l.items)
	return cp
}

// Len returns the number of labels
func (l List) Len() int {
	return len(l.items)
}

// Index returns the position of an exact match
func (l List) Index(name string) (int, bool) {
	for i, item := range l.items {
		if item == name {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether name is an exact member of the list
func (l List) Contains(name string) bool {
	_, ok := l.Index(name)
	return ok
}

// At returns the label at position i
func (l List) At(i int) (string, bool) {
	if i < 0 || i >= len(l.items) {
		return "", false
	}
	return l.items[i], true
}

// Categories is the expense category enumeration. The AI provider must pick one of these verbatim.
var Categories = NewList(
	"1 - Material",
	"2 - Živila",
	"3 - Gradivo/Literatura",
	"4 - Oprema/Orodje",
	"5 - Potni stroški",
	"6 - Prevoz",
	"7 - Najem",
	"9 - Nastanitev",
	"10 - Kotizacija",
	"19 - Banka",
	"20 - Drugo",
)

// Projects are the budget lines a payment can be booked against
var Projects = NewList(
	"Redna dejavnost",
	"Tabor",
	"Zimovanje",
	"Jurjevanje",
	"Izobraževanje",
	"Oprema rodu",
)

// Payers are the people (or the cash box) that paid for an expense
var Payers = NewList(
	"Marko",
	"Jerneja",
	"Lucija",
	"Polona",
	"Lovro",
	"Monika",
	"Jure",
	"Vid",
	"Katarina",
	"Hana",
	"Loti",
	"Blagajna",
)
