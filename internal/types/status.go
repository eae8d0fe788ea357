package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the enumeration shared by every feature cell
type Status string

const (
	StatusYes        Status = "Yes"
	StatusNo         Status = "No"
	StatusPaid       Status = "Paid"
	StatusPartial    Status = "Partial"
	StatusComingSoon Status = "Coming Soon"
	StatusUnknown    Status = "Unknown"
)

// AllStatuses lists the enumeration in display order
var AllStatuses = []Status{StatusYes, StatusPartial, StatusPaid, StatusComingSoon, StatusNo, StatusUnknown}

// ParseStatus matches text against the enumeration, ignoring case and surrounding space
func ParseStatus(s string) (Status, bool) {
	trimmed := strings.TrimSpace(s)
	for _, st := range AllStatuses {
		if strings.EqualFold(trimmed, string(st)) {
			return st, true
		}
	}
	return StatusUnknown, false
}

// Verification records when and where a feature claim was last checked
type Verification struct {
	VerifiedAtVersion string `json:"verifiedAtVersion,omitempty" yaml:"verifiedAtVersion,omitempty"`
	VerificationLink  string `json:"verificationLink,omitempty" yaml:"verificationLink,omitempty"`
	DateVerified      string `json:"dateVerified,omitempty" yaml:"dateVerified,omitempty"`
}

// Annotation carries the provenance fields of the object form
type Annotation struct {
	Note         string        `json:"note,omitempty" yaml:"note,omitempty"`
	Link         string        `json:"link,omitempty" yaml:"link,omitempty"`
	Verification *Verification `json:"verification,omitempty" yaml:"verification,omitempty"`
}

// FeatureStatus is either a flat Status or an annotated one.
// Consumers read the enumeration through Unwrap and never inspect the shape.
type FeatureStatus struct {
	status     Status
	annotation *Annotation
}

// Flat builds the bare enumeration form
func Flat(s Status) FeatureStatus {
	return FeatureStatus{status: s}
}

// Annotated builds the object form
func Annotated(s Status, a Annotation) FeatureStatus {
	return FeatureStatus{status: s, annotation: &a}
}

// Unwrap returns the underlying enumeration member
func (f FeatureStatus) Unwrap() Status {
	if f.status == "" {
		return StatusUnknown
	}
	return f.status
}

// Annotation returns the provenance data, or nil for the flat form
func (f FeatureStatus) Annotation() *Annotation {
	return f.annotation
}

// Note returns the annotation note if any
func (f FeatureStatus) Note() string {
	if f.annotation == nil {
		return ""
	}
	return f.annotation.Note
}

// Verification returns the verification block if any
func (f FeatureStatus) Verification() *Verification {
	if f.annotation == nil {
		return nil
	}
	return f.annotation.Verification
}

// IsSupported reports whether the status satisfies a feature filter
func (f FeatureStatus) IsSupported() bool {
	s := f.Unwrap()
	return s == StatusYes || s == StatusPaid
}

func (f FeatureStatus) String() string {
	return string(f.Unwrap())
}

// statusObject is the wire form of an annotated status
type statusObject struct {
	Status       string        `json:"status" yaml:"status"`
	Note         string        `json:"note,omitempty" yaml:"note,omitempty"`
	Link         string        `json:"link,omitempty" yaml:"link,omitempty"`
	Verification *Verification `json:"verification,omitempty" yaml:"verification,omitempty"`
}

func (f FeatureStatus) toWire() interface{} {
	if f.annotation == nil {
		return string(f.Unwrap())
	}
	return statusObject{
		Status:       string(f.Unwrap()),
		Note:         f.annotation.Note,
		Link:         f.annotation.Link,
		Verification: f.annotation.Verification,
	}
}

// MarshalJSON writes the flat form as a string and the annotated form as an object
func (f FeatureStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.toWire())
}

// MarshalYAML mirrors MarshalJSON
func (f FeatureStatus) MarshalYAML() (interface{}, error) {
	return f.toWire(), nil
}

// UnmarshalJSON accepts either a status string or a status object
func (f *FeatureStatus) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fs, ok := StatusFromValue(raw)
	if !ok {
		return fmt.Errorf("invalid feature status: %s", string(data))
	}
	*f = fs
	return nil
}

// UnmarshalYAML accepts either a status scalar or a status mapping
func (f *FeatureStatus) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	fs, ok := StatusFromValue(raw)
	if !ok {
		return fmt.Errorf("line %d: invalid feature status", node.Line)
	}
	*f = fs
	return nil
}

// StatusFromValue converts a decoded JSON/YAML value into a FeatureStatus.
// The second result is false when the value has neither status shape.
// Text outside the enumeration becomes Unknown with the raw text kept as note.
func StatusFromValue(v interface{}) (FeatureStatus, bool) {
	switch t := v.(type) {
	case string:
		st, ok := ParseStatus(t)
		if !ok {
			return Annotated(StatusUnknown, Annotation{Note: t}), true
		}
		return Flat(st), true
	case map[string]interface{}:
		raw, ok := t["status"].(string)
		if !ok {
			return FeatureStatus{}, false
		}
		a := Annotation{}
		st, known := ParseStatus(raw)
		if !known {
			a.Note = raw
		}
		if note, ok := t["note"].(string); ok && note != "" {
			if a.Note != "" {
				a.Note = a.Note + " (" + note + ")"
			} else {
				a.Note = note
			}
		}
		if link, ok := t["link"].(string); ok {
			a.Link = link
		}
		if ver, ok := t["verification"].(map[string]interface{}); ok {
			a.Verification = &Verification{
				VerifiedAtVersion: stringField(ver, "verifiedAtVersion"),
				VerificationLink:  stringField(ver, "verificationLink"),
				DateVerified:      stringField(ver, "dateVerified"),
			}
		}
		return Annotated(st, a), true
	}
	return FeatureStatus{}, false
}

// isStatusObject reports whether a map looks like the annotated status shape
func isStatusObject(m map[string]interface{}) bool {
	_, ok := m["status"].(string)
	return ok
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
