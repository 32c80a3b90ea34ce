package services

// Build stages, in pipeline order.
const (
	StageDiscover  = "discover"
	StageOrder     = "order"
	StageAggregate = "aggregate"
	StageData      = "data"
	StageRender    = "render"
)

// Progress statuses.
const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusSkipped    = "skipped"
	StatusCreated    = "created"
	StatusNote       = "note"
)

// BuildProgress represents one step of a build
type BuildProgress struct {
	Stage   string
	Slug    string
	Current int
	Total   int
	Status  string
	Message string
	Path    string
	Error   error
}

// ProgressFunc receives progress updates. It is called synchronously.
type ProgressFunc func(BuildProgress)

func (f ProgressFunc) send(p BuildProgress) {
	if f != nil {
		f(p)
	}
}
