package formatter

import (
	"encoding/json"
)

// ToJSON renders any engine report (graph, cycle list, impact analysis,
// metrics) as indented JSON.
func ToJSON(v interface{}) (string, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}
