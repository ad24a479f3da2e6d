package generator

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/protobuf/compiler/protogen"
)

// Visibility selects the access level written on every generated Swift
// declaration.
type Visibility int

const (
	VisibilityInternal Visibility = iota
	VisibilityPublic
)

// Prefix is what declarations carry: empty for internal access (the
// Swift default), "public " otherwise.
func (v Visibility) Prefix() string {
	if v == VisibilityPublic {
		return "public "
	}
	return ""
}

// FileNaming selects how an input path maps to the generated file name.
type FileNaming int

const (
	// FileNamingFullPath keeps the directory layout: a/b/c.proto
	// becomes a/b/c.pb.swift.
	FileNamingFullPath FileNaming = iota
	// FileNamingPathToUnderscores flattens separators: a_b_c.pb.swift.
	FileNamingPathToUnderscores
	// FileNamingDropPath keeps only the base name: c.pb.swift.
	FileNamingDropPath
)

type PluginSettings struct {
	Visibility Visibility
	FileNaming FileNaming

	// ManifestPath, when set, adds one extra output file listing every
	// compiled type with its deterministic schema id.
	ManifestPath string
}

func mapGetOrDefault(paramsMap map[string]string, key string, defaultValue string) string {
	if val, ok := paramsMap[key]; ok {
		return val
	}
	return defaultValue
}

func NewPluginSettingsFromPlugin(p *protogen.Plugin) (*PluginSettings, error) {
	paramsMap := make(map[string]string)
	zap.L().Debug(p.Request.GetParameter())
	params := strings.Split(p.Request.GetParameter(), ",")
	zap.L().Debug("len(params)", zap.Int("len", len(params)))
	for _, param := range params {
		paramSplit := strings.Split(param, "=")
		if len(paramSplit) != 2 {
			continue
		}
		paramsMap[paramSplit[0]] = paramSplit[1]
	}

	settings := &PluginSettings{
		ManifestPath: mapGetOrDefault(paramsMap, "manifest", ""),
	}

	switch v := mapGetOrDefault(paramsMap, "visibility", "internal"); v {
	case "internal":
		settings.Visibility = VisibilityInternal
	case "public":
		settings.Visibility = VisibilityPublic
	default:
		return nil, fmt.Errorf("visibility must be internal or public, got %q", v)
	}

	switch v := mapGetOrDefault(paramsMap, "file_naming", "full_path"); v {
	case "full_path":
		settings.FileNaming = FileNamingFullPath
	case "path_to_underscores":
		settings.FileNaming = FileNamingPathToUnderscores
	case "drop_path":
		settings.FileNaming = FileNamingDropPath
	default:
		return nil, fmt.Errorf("file_naming must be full_path, path_to_underscores or drop_path, got %q", v)
	}

	return settings, nil
}

// OutputPath maps one input path through the naming strategy.
func (s *PluginSettings) OutputPath(protoPath string) string {
	base := strings.TrimSuffix(protoPath, ".proto")
	switch s.FileNaming {
	case FileNamingPathToUnderscores:
		base = strings.ReplaceAll(base, "/", "_")
	case FileNamingDropPath:
		if idx := strings.LastIndex(base, "/"); idx >= 0 {
			base = base[idx+1:]
		}
	}
	return base + ".pb.swift"
}
