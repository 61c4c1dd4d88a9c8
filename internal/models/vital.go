// ABOUTME: Vital reading model and VitalKind enum.
// ABOUTME: Values are numeric or preformatted text such as blood pressure "118/79".
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// VitalKind is the kind of reading captured by the watch.
type VitalKind string

const (
	VitalHeartRate     VitalKind = "heart_rate"
	VitalBloodOxygen   VitalKind = "blood_oxygen"
	VitalSleep         VitalKind = "sleep"
	VitalStress        VitalKind = "stress"
	VitalBloodPressure VitalKind = "blood_pressure"
	VitalECG           VitalKind = "ecg"
)

// VitalUnits maps vital kinds to their display units.
var VitalUnits = map[VitalKind]string{
	VitalHeartRate:     "BPM",
	VitalBloodOxygen:   "%",
	VitalSleep:         "hours",
	VitalStress:        "%",
	VitalBloodPressure: "mmHg",
	VitalECG:           "rhythm",
}

// VitalLabels maps vital kinds to human labels.
var VitalLabels = map[VitalKind]string{
	VitalHeartRate:     "Heart Rate",
	VitalBloodOxygen:   "Blood Oxygen",
	VitalSleep:         "Sleep",
	VitalStress:        "Stress",
	VitalBloodPressure: "Blood Pressure",
	VitalECG:           "ECG",
}

// AllVitalKinds returns all valid vital kinds.
var AllVitalKinds = []VitalKind{
	VitalHeartRate, VitalBloodOxygen, VitalSleep, VitalStress, VitalBloodPressure, VitalECG,
}

// IsValidVitalKind checks if a string is a valid vital kind.
func IsValidVitalKind(s string) bool {
	for _, k := range AllVitalKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// VitalValue holds either a number or a formatted string.
type VitalValue struct {
	num    float64
	text   string
	isText bool
}

// NumberValue wraps a numeric reading.
func NumberValue(f float64) VitalValue {
	return VitalValue{num: f}
}

// TextValue wraps a preformatted reading.
func TextValue(s string) VitalValue {
	return VitalValue{text: s, isText: true}
}

// Float returns the numeric value and whether the reading is numeric.
func (v VitalValue) Float() (float64, bool) {
	return v.num, !v.isText
}

// String formats the value for display.
func (v VitalValue) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON encodes numbers as JSON numbers and text as strings.
func (v VitalValue) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts either a JSON number or string.
func (v *VitalValue) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumberValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("vital value must be number or string: %w", err)
	}
	*v = TextValue(s)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (v VitalValue) MarshalYAML() (interface{}, error) {
	if v.isText {
		return v.text, nil
	}
	return v.num, nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (v *VitalValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" || node.Tag == "!!float" {
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return err
		}
		*v = NumberValue(f)
		return nil
	}
	*v = TextValue(node.Value)
	return nil
}

// Vital is a single immutable reading. A new reading is a new Vital.
type Vital struct {
	ID         string     `json:"id" yaml:"id"`
	Kind       VitalKind  `json:"type" yaml:"type"`
	Value      VitalValue `json:"value" yaml:"value"`
	Unit       string     `json:"unit" yaml:"unit"`
	RecordedAt time.Time  `json:"timestamp" yaml:"timestamp"`
}

// NewVital creates a reading with a generated ID, the kind's unit, and the current time.
func NewVital(kind VitalKind, value VitalValue) Vital {
	return Vital{
		ID:         uuid.New().String(),
		Kind:       kind,
		Value:      value,
		Unit:       VitalUnits[kind],
		RecordedAt: time.Now(),
	}
}

// LatestVital returns the most recent reading of a kind.
func LatestVital(vitals []Vital, kind VitalKind) (Vital, bool) {
	var (
		best  Vital
		found bool
	)
	for _, v := range vitals {
		if v.Kind != kind {
			continue
		}
		if !found || v.RecordedAt.After(best.RecordedAt) {
			best, found = v, true
		}
	}
	return best, found
}
