package models

import "sort"

const (
	// FirstLabel is the first label of the variable domain.
	FirstLabel Label = 'i'

	// LabelCount is the number of variable slots.
	LabelCount = 12

	// AddressBase is the synthetic address of the variable labelled
	// FirstLabel.
	AddressBase = 0x01000

	// AddressStride is the synthetic address distance between two
	// consecutive labels.
	AddressStride = 4
)

// Label identifies a variable. The zero value means no variable.
type Label byte

// NoLabel is the label of no variable.
const NoLabel Label = 0

func (l Label) String() string {
	if l == NoLabel {
		return ""
	}
	return string(rune(l))
}

// Index returns the position of the label within the domain.
func (l Label) Index() int {
	return int(l - FirstLabel)
}

// Valid reports whether the label belongs to the domain.
func (l Label) Valid() bool {
	return l >= FirstLabel && l.Index() < LabelCount
}

// Address returns the synthetic address of the variable with the label.
func (l Label) Address() int {
	return AddressBase + AddressStride*l.Index()
}

// LabelAt returns the label at the given domain index.
func LabelAt(i int) Label {
	return FirstLabel + Label(i)
}

// ParseLabel returns the label described by s.
func ParseLabel(s string) (Label, bool) {
	if len(s) != 1 {
		return NoLabel, false
	}
	l := Label(s[0])
	return l, l.Valid()
}

// lowestFreeLabel returns the lowest label not in use.
func lowestFreeLabel(used func(Label) bool) (Label, bool) {
	for i := 0; i < LabelCount; i++ {
		if l := LabelAt(i); !used(l) {
			return l, true
		}
	}
	return NoLabel, false
}

func sortLabels(labels []Label) {
	sort.Slice(labels, func(i, j int) bool {
		return labels[i] < labels[j]
	})
}
