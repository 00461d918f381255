package systems

// StageKind separates stages run inside World.Tick from bookkeeping done by
// the caller after the tick.
type StageKind uint8

const (
	StagePipeline StageKind = iota
	StageInternal
)

func (k StageKind) String() string {
	if k == StageInternal {
		return "internal"
	}
	return "pipeline"
}

// Stage describes one timed step of a tick. ID is the phase name the perf
// collector records.
type Stage struct {
	ID      string
	Name    string
	Summary string
	Kind    StageKind
}

var defaultStages = []Stage{
	{ID: "spawn", Name: "Spawn", Summary: "append requested particles, growing the store when full"},
	{ID: "integrate", Name: "Integrate", Summary: "Euler step and wall reflection"},
	{ID: "index", Name: "Index", Summary: "rebuild the quadtree from current positions"},
	{ID: "collide", Name: "Collide", Summary: "broad-phase queries and elastic response"},
	{ID: "telemetry", Name: "Telemetry", Summary: "window counters, CSV output and metrics", Kind: StageInternal},
}

// SystemRegistry is the ordered list of tick stages shared by the perf panel
// and the perf collector.
type SystemRegistry struct {
	stages []Stage
	index  map[string]int
}

// NewSystemRegistry returns a registry holding the tick stages in execution order.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{index: make(map[string]int, len(defaultStages))}
	for _, s := range defaultStages {
		r.Register(s)
	}
	return r
}

// Register appends a stage, replacing any earlier stage with the same ID in place.
func (r *SystemRegistry) Register(s Stage) {
	if i, ok := r.index[s.ID]; ok {
		r.stages[i] = s
		return
	}
	r.index[s.ID] = len(r.stages)
	r.stages = append(r.stages, s)
}

// Get looks up a stage by ID.
func (r *SystemRegistry) Get(id string) (Stage, bool) {
	i, ok := r.index[id]
	if !ok {
		return Stage{}, false
	}
	return r.stages[i], true
}

// GetName returns the display name for id, or id itself when unknown.
func (r *SystemRegistry) GetName(id string) string {
	if s, ok := r.Get(id); ok {
		return s.Name
	}
	return id
}

// All returns the stages in execution order. The slice must not be modified.
func (r *SystemRegistry) All() []Stage {
	return r.stages
}

// OfKind returns the stages of one kind, in order.
func (r *SystemRegistry) OfKind(kind StageKind) []Stage {
	var out []Stage
	for _, s := range r.stages {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// IDs returns every stage ID in execution order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.stages))
	for i, s := range r.stages {
		ids[i] = s.ID
	}
	return ids
}
