package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/tripwise/backend/pkg/errors"
)

// LoadGoldenScenarios reads and parses a golden scenario set from a JSON file.
func LoadGoldenScenarios(path string) ([]GoldenScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden scenarios file: %w", err)
	}

	var scenarios []GoldenScenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse golden scenarios: %w", err)
	}

	return scenarios, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

var validErrorTypes = map[string]bool{
	string(apperrors.ErrorTypeInvalidConstraint): true,
}

// ValidateGoldenScenarios checks that all scenarios have required fields and valid values.
func ValidateGoldenScenarios(scenarios []GoldenScenario) error {
	seen := make(map[string]struct{}, len(scenarios))

	for i, s := range scenarios {
		if s.ID == "" {
			return fmt.Errorf("scenario at index %d: missing id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("scenario at index %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		if !s.Kind.Valid() {
			return fmt.Errorf("scenario %q: invalid kind %q", s.ID, s.Kind)
		}
		if !validDifficulties[s.Difficulty] {
			return fmt.Errorf("scenario %q: invalid difficulty %q (must be easy/medium/hard)", s.ID, s.Difficulty)
		}
		if s.ExpectedError != "" {
			if !validErrorTypes[s.ExpectedError] {
				return fmt.Errorf("scenario %q: unsupported expected_error %q", s.ID, s.ExpectedError)
			}
			continue
		}
		if len(s.ExpectedTop) == 0 && len(s.MustExclude) == 0 {
			return fmt.Errorf("scenario %q: needs expected_top or must_exclude", s.ID)
		}
	}

	return nil
}
