package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSet is a JSONB-backed set of string IDs.
type StringSet map[string]struct{}

func NewStringSet(ids ...string) StringSet {
	s := make(StringSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StringSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s StringSet) Slice() []string {
	res := make([]string, 0, len(s))
	for id := range s {
		res = append(res, id)
	}
	return res
}

// MarshalJSON renders the set as a plain array of IDs.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *StringSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewStringSet(ids...)
	return nil
}

func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s.Slice())
}

func (s *StringSet) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("StringSet: Scan failed, expected []byte but got %T", value)
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewStringSet(ids...)
	return nil
}
