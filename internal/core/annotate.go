package core

import (
	"pubwatch/internal/types"
)

// DeriveAnnotation joins a scanned dependency with its registry record.
// The state is UNKNOWN when the fetch failed, no latest version
// resolved, or either version string does not parse; otherwise OUTDATED
// iff the latest version is strictly greater than the declared one.
func DeriveAnnotation(dep types.Dependency, record types.RegistryRecord) types.Annotation {
	annotation := types.Annotation{
		State: types.AnnotationStateUnknown,
		Label: record.LatestVersion,
	}
	if record.FetchError != nil || record.LatestVersion == "" {
		return annotation
	}
	current, err := ParseVersion(dep.Constraint)
	if err != nil {
		return annotation
	}
	latest, err := ParseVersion(record.LatestVersion)
	if err != nil {
		return annotation
	}
	if CompareVersions(latest, current) == types.OrderingGreater {
		annotation.State = types.AnnotationStateOutdated
	} else {
		annotation.State = types.AnnotationStateUpToDate
	}
	return annotation
}
