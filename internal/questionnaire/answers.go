package questionnaire

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Answers holds the collected interview results keyed by question key.
// Values are string, []string, bool, or int depending on the question kind.
type Answers map[string]any

// String returns the answer for key as a string, or "" when absent.
func (a Answers) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the answer for key as a bool, or false when absent.
func (a Answers) Bool(key string) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return false
}

// Int returns the answer for key as an int, or 0 when absent.
func (a Answers) Int(key string) int {
	if v, ok := a[key].(int); ok {
		return v
	}
	return 0
}

// List returns the answer for key as a string slice. YAML decodes sequences
// as []any, so both shapes are handled.
func (a Answers) List(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// LoadAnswers reads a YAML answers file for non-interactive runs.
func LoadAnswers(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}
	var answers Answers
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parsing answers file: %w", err)
	}
	if answers == nil {
		answers = Answers{}
	}
	return answers, nil
}

// SaveAnswers writes answers to a YAML file so a run can be replayed.
func SaveAnswers(path string, answers Answers) error {
	data, err := yaml.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshaling answers: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
