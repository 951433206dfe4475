package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pubwatch/internal/types"
)

// AddDependency resolves a package's latest version and inserts it into
// the nearest manifest, prompting the UI for a name when none was
// given. The manifest is located by walking upward from StartDir.
func (s Service) AddDependency(ctx context.Context, req AddDependencyRequest) (AddDependencyResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		input, ok := s.UI.PromptInput("package name")
		if !ok {
			return AddDependencyResult{Cancelled: true}, nil
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		return AddDependencyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}
	section := req.Section
	if section == "" {
		section = types.SectionDependencies
	}

	record, err := s.Registry.FetchPackage(ctx, name)
	if err != nil {
		s.UI.Notify(fmt.Sprintf("failed to fetch package %s", name))
		return AddDependencyResult{}, err
	}
	if record.LatestVersion == "" {
		return AddDependencyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s has no published version", name))
	}

	path, err := s.Manifest.Locate(req.StartDir)
	if err != nil {
		s.UI.Notify("no manifest file found")
		return AddDependencyResult{}, err
	}
	line, err := s.Manifest.InsertDependency(path, section, name, record.LatestVersion)
	if err != nil {
		return AddDependencyResult{}, err
	}
	if err := s.UI.EditFile(path); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("failed to open manifest")
	}
	log.Info().
		Str("package", name).
		Str("version", record.LatestVersion).
		Str("section", string(section)).
		Msg("dependency added")
	return AddDependencyResult{
		Name:         name,
		Version:      record.LatestVersion,
		ManifestPath: path,
		Line:         line,
	}, nil
}
