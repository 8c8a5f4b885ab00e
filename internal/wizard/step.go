package wizard

import "fmt"

// Step is a stage of the wizard.
type Step int

const (
	StepUpload Step = iota
	StepSelect
	StepEdit
	StepDetails
	StepPreview
)

var stepNames = [...]string{"upload", "select", "edit", "details", "preview"}

func (s Step) String() string {
	if s >= 0 && int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// previous returns the step Back moves to.
func (s Step) previous() Step {
	if s <= StepUpload {
		return StepUpload
	}
	return s - 1
}
