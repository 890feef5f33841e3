// Package adaptive holds the tutoring policy: difficulty transitions,
// topic selection and hint escalation, all computed from a student.Model.
package adaptive

// Config holds the thresholds the controller applies.
type Config struct {
	// MinAttempts is the number of graded answers a topic needs before its
	// difficulty may change.
	MinAttempts int

	// PromoteThreshold is the accuracy at or above which a topic moves up
	// one level. Also the cut-off for "strong" in session feedback.
	PromoteThreshold float64

	// DemoteThreshold is the accuracy at or below which a topic moves down
	// one level. Also drives remediation and "weak" session feedback.
	DemoteThreshold float64

	// EmergencyWindow is the run of consecutive incorrect answers that
	// forces a demotion regardless of aggregate accuracy.
	EmergencyWindow int

	// MaxHintLevel caps hint escalation.
	MaxHintLevel int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinAttempts:      3,
		PromoteThreshold: 0.8,
		DemoteThreshold:  0.4,
		EmergencyWindow:  3,
		MaxHintLevel:     3,
	}
}
