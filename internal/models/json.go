package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON stores a free-form object column.
type JSON map[string]interface{}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringArray stores a JSON array of strings (tags, image lists).
type StringArray []string

// Value implements driver.Valuer.
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// UintArray stores a JSON array of IDs (coupon scope lists).
type UintArray []uint

// Value implements driver.Valuer.
func (u UintArray) Value() (driver.Value, error) {
	if u == nil {
		return nil, nil
	}
	return json.Marshal(u)
}

// Scan implements sql.Scanner.
func (u *UintArray) Scan(value interface{}) error {
	if value == nil {
		*u = UintArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, u)
}

// Contains reports whether id is in the array.
func (u UintArray) Contains(id uint) bool {
	for _, v := range u {
		if v == id {
			return true
		}
	}
	return false
}
