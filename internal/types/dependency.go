package types

type Section string

const (
	SectionDependencies    Section = "dependencies"
	SectionDevDependencies Section = "dev_dependencies"
)

// Dependency is one entry declared in a manifest. Instances are created
// fresh on every scan and never mutated afterwards.
type Dependency struct {
	Name       string
	Constraint string
	Section    Section
	Line       int
}
