package service

import (
	"errors"

	"github.com/printmade/storefront/internal/core/domain"
)

var (
	ErrSelectionNotRequired = errors.New("product requires no size selection")
	ErrGenderNotSelectable  = errors.New("gender selection not applicable")
	ErrGenderNotChosen      = errors.New("gender not chosen")
)

type SelectorState int

const (
	StateNoSelectionRequired SelectorState = iota
	StateAwaitingGender
	StateAwaitingSize
	StateResolved
	StateUnresolved
)

func (s SelectorState) String() string {
	switch s {
	case StateNoSelectionRequired:
		return "no_selection_required"
	case StateAwaitingGender:
		return "awaiting_gender"
	case StateAwaitingSize:
		return "awaiting_size"
	case StateResolved:
		return "resolved"
	case StateUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// Selector drives the gender -> size -> variant selection for one
// product. It is a plain state machine over the product's variant
// groups; it never touches the store.
//
// Unavailable sizes stay selectable: tapping one lands in
// StateUnresolved with the unavailable variant attached so the screen
// can explain why checkout is blocked. StockGuard rejects any cart add
// while unresolved.
type Selector struct {
	category domain.Category
	groups   domain.VariantGroups

	state        SelectorState
	activeGender domain.Gender
	genderFixed  bool
	variant      *domain.ProductVariant
	size         domain.Size
	sizeChosen   bool
}

func NewSelector(category domain.Category, groups domain.VariantGroups) *Selector {
	s := &Selector{category: category, groups: groups}

	if !category.RequiresSizing() {
		s.state = StateNoSelectionRequired
		return s
	}

	if !category.Gendered() {
		// cap-like: the unisex bucket is the only bucket there is
		s.activeGender = domain.GenderUnisex
		s.genderFixed = true
		s.state = StateAwaitingSize
		return s
	}

	populated := groups.Populated()
	if len(populated) == 1 {
		s.activeGender = populated[0]
		s.genderFixed = true
		s.state = StateAwaitingSize
		return s
	}

	s.state = StateAwaitingGender
	return s
}

func (s *Selector) State() SelectorState { return s.state }

func (s *Selector) Gender() domain.Gender { return s.activeGender }

// Size returns the chosen size and whether one was chosen at all.
func (s *Selector) Size() (domain.Size, bool) { return s.size, s.sizeChosen }

// Variant returns the resolved variant, or the unavailable variant
// attached to an unresolved state, or nil.
func (s *Selector) Variant() *domain.ProductVariant { return s.variant }

// ActiveBucket lists the variants the size buttons render from.
func (s *Selector) ActiveBucket() []domain.ProductVariant {
	if s.state == StateNoSelectionRequired || s.state == StateAwaitingGender {
		return nil
	}
	return s.groups.Bucket(s.activeGender)
}

// SelectGender switches the active bucket. Valid only for gendered
// products offering more than one populated bucket. Any previously
// chosen size and resolved variant are always discarded.
func (s *Selector) SelectGender(g domain.Gender) error {
	if s.state == StateNoSelectionRequired {
		return ErrSelectionNotRequired
	}
	if !s.category.Gendered() || s.genderFixed {
		return ErrGenderNotSelectable
	}

	s.activeGender = g
	s.size = ""
	s.sizeChosen = false
	s.variant = nil
	s.state = StateAwaitingSize
	return nil
}

// SelectSize looks the size up in the active bucket. An available match
// resolves the selection; an unavailable or missing match leaves the
// machine unresolved with whatever variant was found attached.
func (s *Selector) SelectSize(size domain.Size) error {
	switch s.state {
	case StateNoSelectionRequired:
		return ErrSelectionNotRequired
	case StateAwaitingGender:
		return ErrGenderNotChosen
	}

	s.size = size
	s.sizeChosen = true
	s.variant = nil

	for _, v := range s.groups.Bucket(s.activeGender) {
		if v.Size == size {
			matched := v
			s.variant = &matched
			break
		}
	}

	if s.variant != nil && s.variant.Available {
		s.state = StateResolved
	} else {
		s.state = StateUnresolved
	}
	return nil
}
