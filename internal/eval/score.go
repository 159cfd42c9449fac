package eval

// DefaultScoreKey is used when neither the case nor the caller names one.
const DefaultScoreKey = "correctness"

// Score records one named measurement within a result. At least one of
// Value or Passed must be set.
type Score struct {
	Key    string   `json:"key"`
	Value  *float64 `json:"value,omitempty"`
	Passed *bool    `json:"passed,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// Validate checks that the score carries a key and a measurement.
func (s Score) Validate() error {
	if s.Key == "" {
		return ConfigErrorf("score has no key and no default score key is set")
	}
	if s.Value == nil && s.Passed == nil {
		return ConfigErrorf("score %q must set value or passed", s.Key)
	}
	return nil
}

// PassScore builds a pass/fail score.
func PassScore(key string, passed bool, notes string) Score {
	return Score{Key: key, Passed: &passed, Notes: notes}
}

// ValueScore builds a numeric score.
func ValueScore(key string, value float64, notes string) Score {
	return Score{Key: key, Value: &value, Notes: notes}
}
