package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// decodeJSONList decodes a JSON array of doctor records. Numbers are kept as
// json.Number so integer fields keep their exact text.
func decodeJSONList(r io.Reader) ([]entities.RawDoctor, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return toRawDoctors(payload)
}

// toRawDoctors converts a decoded list into records. Elements that are not
// objects become empty records so the list length and positions are kept.
func toRawDoctors(payload any) ([]entities.RawDoctor, error) {
	list, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("payload is %T, expected a list of doctors", payload)
	}

	doctors := make([]entities.RawDoctor, 0, len(list))
	for _, item := range list {
		switch rec := item.(type) {
		case map[string]any:
			doctors = append(doctors, entities.RawDoctor(rec))
		case map[any]any:
			// YAML mappings with any non-string key
			doctor := make(entities.RawDoctor, len(rec))
			for k, v := range rec {
				doctor[fmt.Sprint(k)] = v
			}
			doctors = append(doctors, doctor)
		default:
			doctors = append(doctors, entities.RawDoctor{})
		}
	}
	return doctors, nil
}
