package event

import "encoding/json"

// DecodePayload converts an event payload into T. Payloads published in
// process already have the target type; anything else goes through JSON.
func DecodePayload[T any](input any) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
