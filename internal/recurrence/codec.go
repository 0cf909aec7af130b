package recurrence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type dailyWire struct {
	Kind Kind    `json:"kind"`
	Days int     `json:"days"`
	At   *string `json:"at"`
}

type weeklyWire struct {
	Kind     Kind     `json:"kind"`
	Weeks    int      `json:"weeks"`
	Weekdays []string `json:"weekdays"`
	At       *string  `json:"at"`
}

type monthlyWire struct {
	Kind   Kind    `json:"kind"`
	Months int     `json:"months"`
	Day    int     `json:"day"`
	At     *string `json:"at"`
}

// Marshal encodes rule in its tagged form, e.g.
//
//	{"kind":"Weekly","weeks":2,"weekdays":["FRIDAY","SUNDAY"],"at":"18:00"}
func Marshal(rule Rule) ([]byte, error) {
	switch r := rule.(type) {
	case Daily:
		w := dailyWire{Kind: KindDaily, Days: r.days}
		if r.timed {
			s := r.at.String()
			w.At = &s
		}
		return json.Marshal(w)
	case Weekly:
		days := r.weekdays.Sorted()
		names := make([]string, len(days))
		for i, d := range days {
			names[i] = d.Name()
		}
		at := r.at.String()
		return json.Marshal(weeklyWire{Kind: KindWeekly, Weeks: r.weeks, Weekdays: names, At: &at})
	case Monthly:
		at := r.at.String()
		return json.Marshal(monthlyWire{Kind: KindMonthly, Months: r.months, Day: r.day, At: &at})
	case nil:
		return nil, fmt.Errorf("marshal recurrence: nil rule")
	default:
		return nil, fmt.Errorf("marshal recurrence %T: %w", rule, ErrUnknownKind)
	}
}

// kindAliases maps tags written by older builds onto the current kinds.
var kindAliases = map[string]Kind{
	"daily":           KindDaily,
	"dailyinterval":   KindDaily,
	"weekly":          KindWeekly,
	"weeklyinterval":  KindWeekly,
	"monthly":         KindMonthly,
	"monthlyinterval": KindMonthly,
}

// Unmarshal decodes the tagged form. An unrecognized kind fails with
// ErrUnknownKind and a bad field with ErrMalformedField; neither falls back
// to a default rule. Absent fields take the constructor defaults.
func Unmarshal(data []byte) (Rule, error) {
	var head struct {
		Kind *string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedField, err)
	}
	if head.Kind == nil {
		return nil, fmt.Errorf("%w: missing kind", ErrUnknownKind)
	}
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(*head.Kind))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, *head.Kind)
	}

	switch kind {
	case KindDaily:
		var w struct {
			Days *int    `json:"days"`
			At   *string `json:"at"`
		}
		if err := decodeFields(data, &w); err != nil {
			return nil, err
		}
		days := intOr(w.Days, 1)
		if w.At == nil {
			return asRule(NewDaily(days))
		}
		at, err := ParseClock(*w.At)
		if err != nil {
			return nil, err
		}
		return asRule(NewDailyAt(days, at))
	case KindWeekly:
		var w struct {
			Weeks    *int     `json:"weeks"`
			Weekdays []string `json:"weekdays"`
			At       *string  `json:"at"`
		}
		if err := decodeFields(data, &w); err != nil {
			return nil, err
		}
		var set WeekdaySet
		for _, name := range w.Weekdays {
			d, err := ParseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("%w: weekly.weekdays: %v", ErrMalformedField, err)
			}
			set = set.Add(d)
		}
		at, err := clockOr(w.At, DefaultClock)
		if err != nil {
			return nil, err
		}
		return asRule(NewWeekly(intOr(w.Weeks, 1), set, at))
	case KindMonthly:
		var w struct {
			Months *int    `json:"months"`
			Day    *int    `json:"day"`
			At     *string `json:"at"`
		}
		if err := decodeFields(data, &w); err != nil {
			return nil, err
		}
		at, err := clockOr(w.At, DefaultClock)
		if err != nil {
			return nil, err
		}
		return asRule(NewMonthly(intOr(w.Months, 1), intOr(w.Day, DefaultDayOfMonth), at))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decodeFields(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedField, err)
	}
	return nil
}

func asRule[R Rule](r R, err error) (Rule, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func clockOr(p *string, def Clock) (Clock, error) {
	if p == nil {
		return def, nil
	}
	return ParseClock(*p)
}
