package models

// AgendaEntry is the presentation view of one appointment: the record itself
// plus the derived package annotation and the actions currently permitted.
// Recomputed from the full snapshot on every read, never stored.
type AgendaEntry struct {
	Appointment Appointment `json:"appointment"`

	PackageTotal   int  `json:"package_total,omitempty"`
	CompletedCount int  `json:"completed_count,omitempty"`
	CycleProgress  int  `json:"cycle_progress,omitempty"`
	CycleComplete  bool `json:"cycle_complete,omitempty"`
	CanEdit        bool `json:"can_edit"`
	CanReschedule  bool `json:"can_reschedule"`

	// TimeOptions is the union of the current start time and the free grid
	// slots for the appointment's duration, sorted by time of day. The current
	// time may be off-grid, so it is unioned in explicitly.
	TimeOptions []string `json:"time_options,omitempty"`
}

// Snapshot is one immutable read of the full data set. Derived views are
// computed against a snapshot and thrown away; nothing is cached across reads.
type Snapshot struct {
	Clients      []Client
	Services     []Service
	Appointments []Appointment
}

// ServiceIndex returns the catalog lookup for this snapshot.
func (s *Snapshot) ServiceIndex() map[string]Service {
	return IndexServices(s.Services)
}
