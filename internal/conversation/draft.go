package conversation

// Sex is the normalized value collected at ASK_SEX
type Sex string

const (
	SexMale   Sex = "Masculino"
	SexFemale Sex = "Femenino"
)

// Field names a draft slot, in collection order
type Field int

const (
	FieldSex Field = iota
	FieldAge
	FieldHeight
	FieldWeight
	FieldAllergies
)

// Draft holds the profile fields collected so far. It is only mutated by
// the transition function and is never persisted partially.
type Draft struct {
	Sex       Sex      `json:"sex,omitempty"`
	Age       *int     `json:"age,omitempty"`
	HeightCm  *int     `json:"heightCm,omitempty"`
	WeightKg  *int     `json:"weightKg,omitempty"`
	Allergies []string `json:"allergies,omitempty"`
}

// ProfilePatch is the all-or-nothing commit emitted at the end of collection
type ProfilePatch struct {
	Sex       Sex      `json:"sex"`
	Age       int      `json:"age"`
	HeightCm  int      `json:"heightCm"`
	WeightKg  int      `json:"weightKg"`
	Allergies []string `json:"allergies"`
}

func (d Draft) isSet(f Field) bool {
	switch f {
	case FieldSex:
		return d.Sex != ""
	case FieldAge:
		return d.Age != nil
	case FieldHeight:
		return d.HeightCm != nil
	case FieldWeight:
		return d.WeightKg != nil
	case FieldAllergies:
		return len(d.Allergies) > 0
	}
	return false
}

// InOrder reports whether fields were populated strictly in collection order:
// no field is set while an earlier one is unset.
func (d Draft) InOrder() bool {
	seenGap := false
	for f := FieldSex; f <= FieldAllergies; f++ {
		if !d.isSet(f) {
			seenGap = true
			continue
		}
		if seenGap {
			return false
		}
	}
	return true
}

// Clear returns a copy of the draft with one field discarded
func (d Draft) Clear(f Field) Draft {
	switch f {
	case FieldSex:
		d.Sex = ""
	case FieldAge:
		d.Age = nil
	case FieldHeight:
		d.HeightCm = nil
	case FieldWeight:
		d.WeightKg = nil
	case FieldAllergies:
		d.Allergies = nil
	}
	return d
}

// WithAllergy returns a copy of the draft with one more allergy appended
func (d Draft) WithAllergy(allergy string) Draft {
	next := make([]string, 0, len(d.Allergies)+1)
	next = append(next, d.Allergies...)
	d.Allergies = append(next, allergy)
	return d
}

// Complete reports whether every scalar field has been collected
func (d Draft) Complete() bool {
	return d.Sex != "" && d.Age != nil && d.HeightCm != nil && d.WeightKg != nil
}

// Patch converts a complete draft into a commit. Allergies is never nil.
func (d Draft) Patch() ProfilePatch {
	p := ProfilePatch{
		Sex:       d.Sex,
		Allergies: []string{},
	}
	if d.Age != nil {
		p.Age = *d.Age
	}
	if d.HeightCm != nil {
		p.HeightCm = *d.HeightCm
	}
	if d.WeightKg != nil {
		p.WeightKg = *d.WeightKg
	}
	p.Allergies = append(p.Allergies, d.Allergies...)
	return p
}

func intPtr(v int) *int {
	return &v
}
