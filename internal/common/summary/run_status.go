package summary

// RunStatus defines the possible states of a sync run.
type RunStatus string

const (
	RunStatusStarted         RunStatus = "STARTED"
	RunStatusCompleted       RunStatus = "COMPLETED"
	RunStatusFailed          RunStatus = "FAILED"
	RunStatusPartialComplete RunStatus = "PARTIAL_COMPLETE"
	RunStatusInterrupted     RunStatus = "INTERRUPTED"
	RunStatusNoTargets       RunStatus = "NO_TARGETS"
	RunStatusUnknown         RunStatus = "UNKNOWN"
)

// IsSuccess checks if run status indicates success
func (rs RunStatus) IsSuccess() bool {
	return rs == RunStatusCompleted || rs == RunStatusNoTargets
}

// IsFailure checks if run status indicates failure
func (rs RunStatus) IsFailure() bool {
	return rs == RunStatusFailed || rs == RunStatusPartialComplete || rs == RunStatusInterrupted
}
