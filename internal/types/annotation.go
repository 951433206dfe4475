package types

type AnnotationState string

const (
	AnnotationStateUpToDate AnnotationState = "up_to_date"
	AnnotationStateOutdated AnnotationState = "outdated"
	AnnotationStateUnknown  AnnotationState = "unknown"
)

// Annotation is the render-ready join of a dependency and its registry
// record. Label carries the latest known version when one resolved.
type Annotation struct {
	State AnnotationState
	Label string
}

type Ordering int

const (
	OrderingLess    Ordering = -1
	OrderingEqual   Ordering = 0
	OrderingGreater Ordering = 1
)

// Version is a parsed three-component version.
type Version struct {
	Major int
	Minor int
	Patch int
}
