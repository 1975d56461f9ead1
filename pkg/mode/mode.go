package mode

import "time"

// Custom is a user-defined mode.
type Custom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Method    Method    `json:"method"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewCustom builds a Custom mode created at now.
func NewCustom(id, name string, method Method, now time.Time) Custom {
	return Custom{
		ID:        id,
		Name:      name,
		Method:    method,
		CreatedAt: NewTimestamp(now),
	}
}

// Kind distinguishes the two variants of Mode.
type Kind int

const (
	KindBuiltIn Kind = iota
	KindCustom
)

// Mode is either a built-in mode or a custom one. Use FromBuiltIn or
// FromCustom to construct it.
type Mode struct {
	kind    Kind
	builtIn BuiltIn
	custom  Custom
}

func FromBuiltIn(b BuiltIn) Mode {
	return Mode{kind: KindBuiltIn, builtIn: b}
}

func FromCustom(c Custom) Mode {
	return Mode{kind: KindCustom, custom: c}
}

func (m Mode) Kind() Kind { return m.kind }

// ID is the identifier used for storage scopes and the hidden-mode set.
func (m Mode) ID() string {
	if m.kind == KindCustom {
		return m.custom.ID
	}
	return string(m.builtIn)
}

// Name is the user's name for a custom mode and the identifier for a
// built-in one; display names of built-ins come from localization.
func (m Mode) Name() string {
	if m.kind == KindCustom {
		return m.custom.Name
	}
	return string(m.builtIn)
}

// Method is the display method; unknown custom methods fall back to
// DefaultMethod.
func (m Mode) Method() Method {
	if m.kind == KindCustom {
		if m.custom.Method.Valid() {
			return m.custom.Method
		}
		return DefaultMethod
	}
	return m.builtIn.Method()
}

func (m Mode) BuiltIn() (BuiltIn, bool) {
	return m.builtIn, m.kind == KindBuiltIn
}

func (m Mode) Custom() (Custom, bool) {
	return m.custom, m.kind == KindCustom
}
