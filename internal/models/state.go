package models

// RequestStatus is the phase of the study request lifecycle. Exactly one is active at a time.
type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s RequestStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of a study request lifecycle. Fields that do not belong to the current Status are
// zero: Materials is only set in StatusSuccess and Message only in StatusFailure.
type Snapshot struct {
	// Seq identifies the latest issued request. It increases on every submit, reset and load.
	Seq     uint64
	Status  RequestStatus
	Subject string
	Topic   string
	// Materials is nil unless Status is StatusSuccess. It is a copy owned by the holder of the snapshot.
	Materials *StudyMaterials
	// Message is the user-visible failure message.
	Message string
	Tool    StudyTool
	// Banner is a persistent configuration problem, e.g., a missing API key. It is independent of Status.
	Banner string
}

func (s Snapshot) IsIdle() bool    { return s.Status == StatusIdle }
func (s Snapshot) IsLoading() bool { return s.Status == StatusLoading }
func (s Snapshot) IsSuccess() bool { return s.Status == StatusSuccess }
func (s Snapshot) IsFailure() bool { return s.Status == StatusFailure }
