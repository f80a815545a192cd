package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores an opaque structured value as serialized JSON text.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal json field: %w", err)
	}
	return string(raw), nil
}

func (m *JSONMap) Scan(v interface{}) error {
	var raw []byte
	switch typed := v.(type) {
	case []byte:
		raw = typed
	case string:
		raw = []byte(typed)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("unexpected type %T for json field", v)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

func (JSONMap) GormDataType() string {
	return "text"
}
