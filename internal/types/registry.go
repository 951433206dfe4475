package types

import "time"

type VersionEntry struct {
	Version     string
	PublishedAt time.Time
}

// RegistryRecord is the resolved information about one package name.
// FetchError and LatestVersion are mutually informative: when FetchError
// is set, LatestVersion is treated as unusable downstream.
type RegistryRecord struct {
	Name            string
	LatestVersion   string
	LatestPublished time.Time
	Versions        []VersionEntry
	FetchError      error
}
