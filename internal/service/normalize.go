package service

import (
	"strconv"
	"time"
)

// Порядок ключей фиксирован: берётся первое присутствующее непустое
// значение. Новому источнику достаточно дописать ключ в таблицу.
var (
	idKeys     = []string{"dataset_id", "id", "uuid", "studyId", "accession", "osdr_id"}
	titleKeys  = []string{"title", "name", "label"}
	statusKeys = []string{"status", "state", "lifecycle"}
	timeKeys   = []string{"updated", "updated_at", "modified", "lastUpdated", "timestamp"}
)

// recordsOf приводит ответ каталога к списку записей: голый массив,
// массив под известным ключом-обёрткой, иначе весь объект считается
// единственной записью.
func recordsOf(payload interface{}) []map[string]interface{} {
	unwrap := func(items []interface{}) []map[string]interface{} {
		var records []map[string]interface{}
		for _, item := range items {
			if record, ok := item.(map[string]interface{}); ok {
				records = append(records, record)
			}
		}
		return records
	}

	if items, ok := payload.([]interface{}); ok {
		return unwrap(items)
	}

	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, wrapper := range []string{"items", "results"} {
		if items, ok := obj[wrapper].([]interface{}); ok {
			return unwrap(items)
		}
	}
	return []map[string]interface{}{obj}
}

// pickString — первое непустое строковое значение по списку ключей;
// числовые значения приводятся к строке.
func pickString(record map[string]interface{}, keys []string) *string {
	for _, key := range keys {
		val, ok := record[key]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			if v != "" {
				return &v
			}
		case float64:
			s := strconv.FormatFloat(v, 'f', -1, 64)
			return &s
		}
	}
	return nil
}

// pickTime — первое значение по списку ключей, распарсенное как RFC3339,
// затем как "YYYY-MM-DD HH:MM:SS" в UTC, затем как unix-секунды.
func pickTime(record map[string]interface{}, keys []string) *time.Time {
	for _, key := range keys {
		val, ok := record[key]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return &t
			}
			if t, err := time.ParseInLocation("2006-01-02 15:04:05", v, time.UTC); err == nil {
				return &t
			}
		case float64:
			t := time.Unix(int64(v), 0).UTC()
			return &t
		}
	}
	return nil
}
