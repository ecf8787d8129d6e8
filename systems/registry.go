package systems

// Phase IDs of the simulation tick, in pipeline order.
const (
	PhaseMotion    = "motion"
	PhaseCollision = "collision"
	PhaseDispatch  = "dispatch"
	PhaseCleanup   = "cleanup"
)

// PhaseInfo describes one tick phase for display and perf tracking.
type PhaseInfo struct {
	ID          string // perf key
	Name        string
	Description string
	Category    string // "core", "physics" or "ai"
}

// PhaseRegistry names the tick phases so the HUD and perf tracker agree.
type PhaseRegistry struct {
	phases []PhaseInfo
	index  map[string]int
}

// NewPhaseRegistry creates a registry of the tick pipeline.
func NewPhaseRegistry() *PhaseRegistry {
	r := &PhaseRegistry{index: make(map[string]int)}
	r.Register(PhaseInfo{ID: PhaseMotion, Name: "Motion", Description: "Steps controllers and fires expired alarms", Category: "core"})
	r.Register(PhaseInfo{ID: PhaseCollision, Name: "Collision", Description: "Sweeps and ejects overlapping bodies", Category: "physics"})
	r.Register(PhaseInfo{ID: PhaseDispatch, Name: "Dispatch", Description: "Delivers contacts to brains", Category: "ai"})
	r.Register(PhaseInfo{ID: PhaseCleanup, Name: "Cleanup", Description: "Destroys depleted entities and clamps amounts", Category: "core"})
	return r
}

// Register appends a phase. Re-registering an ID replaces its info in place.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	if i, ok := r.index[info.ID]; ok {
		r.phases[i] = info
		return
	}
	r.index[info.ID] = len(r.phases)
	r.phases = append(r.phases, info)
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	i, ok := r.index[id]
	if !ok {
		return PhaseInfo{}, false
	}
	return r.phases[i], true
}

// GetName returns the display name for a phase ID, or the ID itself.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// All returns the phases in pipeline order.
func (r *PhaseRegistry) All() []PhaseInfo { return r.phases }

// IDs returns the phase IDs in pipeline order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
