package generator

import (
	"strings"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
	"google.golang.org/protobuf/compiler/protogen"

	"github.com/noom/swift-protobuf/logger"
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

type Generator struct {
	Settings *PluginSettings
	Plugin   *protogen.Plugin
}

type Option func(*Generator) error

// WithVisibility overrides the access level parsed from the request
// parameters.
func WithVisibility(v Visibility) Option {
	return func(g *Generator) error {
		g.Settings.Visibility = v
		return nil
	}
}

// WithManifestPath overrides the manifest output location.
func WithManifestPath(path string) Option {
	return func(g *Generator) error {
		g.Settings.ManifestPath = path
		return nil
	}
}

func NewGenerator(p *protogen.Plugin, opts ...Option) (*Generator, error) {
	settings, err := NewPluginSettingsFromPlugin(p)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		Settings: settings,
		Plugin:   p,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Generate compiles every Generate-flagged file of the request into a
// .pb.swift source. The schema arena spans the whole request, imports
// included, so cross-file type references resolve even when their
// files emit nothing.
func (g *Generator) Generate() error {
	l := logger.Logger.Named("Generate")

	arena, files, err := schema.Build(g.Plugin.Files)
	if err != nil {
		return err
	}
	if err := arena.Validate(); err != nil {
		return err
	}
	namer := NewNamer(arena)

	manifest := &Manifest{}
	for i, file := range g.Plugin.Files {
		fs := files[i]
		if !file.Generate {
			continue
		}
		if strings.HasPrefix(fs.Package, "google.protobuf") {
			l.Debug("skip well-known file", zap.String("path", fs.Path))
			continue
		}
		outPath := g.Settings.OutputPath(fs.Path)
		l.Debug("file",
			zap.String("path", fs.Path),
			zap.String("package", fs.Package),
			zap.String("out", outPath),
		)

		fg := newFileGen(fs, arena, namer, g.Settings.Visibility)
		p := swift.NewPrinter()
		fg.render(p)
		out := g.Plugin.NewGeneratedFile(outPath, "")
		if _, err := out.Write(p.Bytes()); err != nil {
			return err
		}
		manifest.addFile(fg)
	}

	if g.Settings.ManifestPath != "" {
		l.Debug("manifest", zap.String("out", g.Settings.ManifestPath), zap.Int("entries", len(manifest.Entries)))
		var e jx.Encoder
		manifest.MarshalJX(&e)
		out := g.Plugin.NewGeneratedFile(g.Settings.ManifestPath, "")
		if _, err := out.Write(e.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
