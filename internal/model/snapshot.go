package model

// Insight represents a finding produced by an audit.
type Insight struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Confidence  float64    `json:"confidence"` // 0.0 - 1.0
	Evidence    []Evidence `json:"evidence"`
	Actions     []string   `json:"suggested_actions,omitempty"`
}

// Evidence links an insight back to concrete elements.
type Evidence struct {
	TraversalIndex int    `json:"traversal_index"`
	Identifier     string `json:"identifier,omitempty"`
	Description    string `json:"description,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

// Artifact represents a generated output file.
type Artifact struct {
	Name    string `json:"name"` // e.g. "legend.md"
	Content []byte `json:"-"`    // Raw content
	Type    string `json:"type"` // MIME type hint
}

// Snapshot holds the complete result of an inspection run.
type Snapshot struct {
	Meta      SnapshotMeta `json:"meta"`
	Elements  []Element    `json:"elements"`
	Hierarchy []Hierarchy  `json:"hierarchy"`
	Insights  []Insight    `json:"insights"`
	Artifacts []Artifact   `json:"artifacts"`
}

// SnapshotMeta contains metadata about a snapshot generation run.
type SnapshotMeta struct {
	ID              string   `json:"id"`
	SourcePath      string   `json:"source_path"`
	Loader          string   `json:"loader"`
	GeneratedAt     string   `json:"generated_at"`
	Duration        string   `json:"duration"`
	Locale          string   `json:"locale"`
	Idiom           string   `json:"idiom"`
	LayoutDirection string   `json:"layout_direction"`
	Audits          []string `json:"audits"`
	Renderers       []string `json:"renderers"`
	ElementCount    int      `json:"element_count"`
	ContainerCount  int      `json:"container_count"`
	RotorCount      int      `json:"rotor_count"`
	InsightCount    int      `json:"insight_count"`
}
