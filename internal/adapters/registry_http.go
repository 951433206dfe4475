package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pubwatch/internal/shared"
	"pubwatch/internal/types"
)

const DefaultRegistryBaseURL = "https://pub.dev/api"

type RegistryHTTPConfig struct {
	BaseURL string
	// TimeoutSec bounds one fetch; zero means no client timeout.
	TimeoutSec int
}

// RegistryHTTPAdapter fetches package metadata from the registry's
// packages endpoint. Compressed transfer is handled by the default
// transport's transparent gzip support.
type RegistryHTTPAdapter struct {
	baseURL string
	client  *http.Client
}

func NewRegistryHTTPAdapter(cfg RegistryHTTPConfig) RegistryHTTPAdapter {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultRegistryBaseURL
	}
	client := &http.Client{}
	if cfg.TimeoutSec > 0 {
		client.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	return RegistryHTTPAdapter{baseURL: baseURL, client: client}
}

type packagePayload struct {
	Latest   *versionPayload  `json:"latest"`
	Versions []versionPayload `json:"versions"`
}

type versionPayload struct {
	Version   string    `json:"version"`
	Published time.Time `json:"published"`
}

func (a RegistryHTTPAdapter) FetchPackage(ctx context.Context, name string) (types.RegistryRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	endpoint := fmt.Sprintf("%s/packages/%s", a.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry request").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("registry request failed for %s", name)).
			WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read registry response for %s", name)).
			WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("registry rejected request for %s", name)).
			WithCause(shared.HTTPStatusError(resp.StatusCode, endpoint))
	}
	if len(body) == 0 {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("empty registry response for %s", name))
	}

	var payload packagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return types.RegistryRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid registry payload for %s", name)).
			WithCause(err)
	}

	record := types.RegistryRecord{Name: name}
	if payload.Latest != nil {
		record.LatestVersion = payload.Latest.Version
		record.LatestPublished = payload.Latest.Published
	}
	if len(payload.Versions) > 0 {
		record.Versions = make([]types.VersionEntry, 0, len(payload.Versions))
		for _, entry := range payload.Versions {
			record.Versions = append(record.Versions, types.VersionEntry{
				Version:     entry.Version,
				PublishedAt: entry.Published,
			})
		}
	}
	return record, nil
}
