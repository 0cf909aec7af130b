package model

import (
	"database/sql/driver"
	"fmt"

	"now-and-here/internal/recurrence"
)

// RepeatRule is the repeat column of a task. It stores the rule's tagged JSON.
//
// A stored value that fails to decode does not fail the row: the error is kept
// on the value (see Err) and the original text is written back untouched, so a
// rule from a newer build survives a round trip through an older one.
type RepeatRule struct {
	Rule recurrence.Rule

	raw string
	err error
}

func NewRepeatRule(rule recurrence.Rule) RepeatRule { return RepeatRule{Rule: rule} }

// IsSet reports whether a decoded rule is present.
func (r RepeatRule) IsSet() bool { return r.Rule != nil }

// Err returns the decode error of the stored value, if any.
func (r RepeatRule) Err() error { return r.err }

func (r RepeatRule) String() string {
	if r.err != nil {
		return "unreadable repeat rule"
	}
	return recurrence.Display(r.Rule)
}

func (RepeatRule) GormDataType() string { return "text" }

func (r RepeatRule) Value() (driver.Value, error) {
	if r.Rule == nil {
		if r.err != nil && r.raw != "" {
			return r.raw, nil
		}
		return nil, nil
	}
	data, err := recurrence.Marshal(r.Rule)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (r *RepeatRule) Scan(src any) error {
	*r = RepeatRule{}
	var raw string
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan repeat rule: unsupported type %T", src)
	}
	if raw == "" {
		return nil
	}
	rule, err := recurrence.Unmarshal([]byte(raw))
	if err != nil {
		r.raw, r.err = raw, err
		return nil
	}
	r.Rule = rule
	return nil
}
