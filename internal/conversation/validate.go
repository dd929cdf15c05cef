package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rejection is returned when input does not satisfy the constraint of the
// current state. The machine turns it into a re-prompt in the same state.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func reject(reason string) *Rejection {
	return &Rejection{Reason: reason}
}

// Bounds caps the numeric profile fields
type Bounds struct {
	MaxHeightCm int
	MaxWeightKg int
}

// DefaultBounds returns the limits used when none are configured
func DefaultBounds() Bounds {
	return Bounds{MaxHeightCm: 300, MaxWeightKg: 500}
}

// Rules checks raw user responses and normalizes them into typed values
type Rules struct {
	bounds   Bounds
	validate *validator.Validate
}

// NewRules creates the validation rules with the given bounds
func NewRules(bounds Bounds) *Rules {
	def := DefaultBounds()
	if bounds.MaxHeightCm <= 0 {
		bounds.MaxHeightCm = def.MaxHeightCm
	}
	if bounds.MaxWeightKg <= 0 {
		bounds.MaxWeightKg = def.MaxWeightKg
	}
	return &Rules{bounds: bounds, validate: validator.New()}
}

// Bounds returns the effective limits
func (r *Rules) Bounds() Bounds {
	return r.bounds
}

// Choice resolves input onto one of the offered options, by intent first
// and then by exact label match.
func (r *Rules) Choice(in Input, options []Option, reason string) (Option, error) {
	if in.Intent != "" {
		for _, o := range options {
			if o.Intent == in.Intent {
				return o, nil
			}
		}
	}
	if in.Text != "" {
		for _, o := range options {
			if o.Label == in.Text {
				return o, nil
			}
		}
	}
	return Option{}, reject(reason)
}

// Sex accepts only the two offered sex options
func (r *Rules) Sex(in Input) (Sex, error) {
	opt, err := r.Choice(in, sexOptions(), msgRejectSex)
	if err != nil {
		return "", err
	}
	if opt.Intent == IntentSexMale {
		return SexMale, nil
	}
	return SexFemale, nil
}

// Age accepts an integer strictly between 0 and 120
func (r *Rules) Age(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, reject(msgRejectAge)
	}
	if err := r.validate.Var(n, "gt=0,lt=120"); err != nil {
		return 0, reject(msgRejectAge)
	}
	return n, nil
}

// Height accepts a positive integer up to the configured maximum in cm
func (r *Rules) Height(raw string) (int, error) {
	return r.positive(raw, r.bounds.MaxHeightCm, fmt.Sprintf(msgRejectHeight, r.bounds.MaxHeightCm))
}

// Weight accepts a positive integer up to the configured maximum in kg
func (r *Rules) Weight(raw string) (int, error) {
	return r.positive(raw, r.bounds.MaxWeightKg, fmt.Sprintf(msgRejectWeight, r.bounds.MaxWeightKg))
}

func (r *Rules) positive(raw string, max int, reason string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, reject(reason)
	}
	if err := r.validate.Var(n, fmt.Sprintf("gt=0,lte=%d", max)); err != nil {
		return 0, reject(reason)
	}
	return n, nil
}

// Allergy accepts any non-empty trimmed text as one allergy entry
func (r *Rules) Allergy(raw string, reason string) (string, error) {
	v := strings.TrimSpace(raw)
	if err := r.validate.Var(v, "required"); err != nil {
		return "", reject(reason)
	}
	return v, nil
}
