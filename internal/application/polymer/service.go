// Package polymer is the application service tier: it applies configured
// defaults and caps to incoming requests, drives the domain builder and
// repeater, serializes results through the XYZ codec, and records metrics.
// Both the CLI and the HTTP API call through this package so the two
// surfaces cannot drift apart.
package polymer

import (
	"time"

	"github.com/polyforge/polychain/internal/codec/xyz"
	"github.com/polyforge/polychain/internal/config"
	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/prometheus"
	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	"github.com/polyforge/polychain/pkg/errors"
)

// Service exposes the two construction pipelines and the inspect operation.
// The store and metrics collaborators are optional; the CLI runs without
// metrics and a caller that never saves documents may pass a nil store.
type Service struct {
	generator config.GeneratorConfig
	repeater  config.RepeaterConfig
	store     *fsstore.Store
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService constructs a Service.
func NewService(cfg *config.Config, store *fsstore.Store, metrics *prometheus.Metrics, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		generator: cfg.Generator,
		repeater:  cfg.Repeater,
		store:     store,
		metrics:   metrics,
		logger:    logger.Named("polymer"),
	}
}

// GenerateRequest carries procedural-builder parameters. Nil float fields
// and an empty element take the configured defaults; Units is always
// explicit because there is no sensible default chain size.
type GenerateRequest struct {
	Units        int      `json:"units"`
	BondAngle    *float64 `json:"bond_angle,omitempty"`
	TorsionAngle *float64 `json:"torsion_angle,omitempty"`
	BondLength   *float64 `json:"bond_length,omitempty"`
	Element      string   `json:"element,omitempty"`
	Comment      string   `json:"comment,omitempty"`

	// SaveAs, when non-empty, persists the serialized document in the store
	// under the sanitized name.
	SaveAs string `json:"save_as,omitempty"`
}

// GenerateResult is the outcome of a procedural build.
type GenerateResult struct {
	Chain     *chain.Chain `json:"chain"`
	XYZ       string       `json:"xyz"`
	AtomCount int          `json:"atom_count"`
	BondCount int          `json:"bond_count"`
	SavedPath string       `json:"saved_path,omitempty"`
}

// buildParams resolves a request against configured defaults.
func (s *Service) buildParams(req GenerateRequest) chain.BuildParams {
	p := chain.BuildParams{
		Units:        req.Units,
		BondAngle:    s.generator.DefaultBondAngle,
		TorsionAngle: s.generator.DefaultTorsionAngle,
		BondLength:   s.generator.DefaultBondLength,
		Element:      s.generator.DefaultElement,
	}
	if req.BondAngle != nil {
		p.BondAngle = *req.BondAngle
	}
	if req.TorsionAngle != nil {
		p.TorsionAngle = *req.TorsionAngle
	}
	if req.BondLength != nil {
		p.BondLength = *req.BondLength
	}
	if req.Element != "" {
		p.Element = req.Element
	}
	return p
}

// Generate runs the procedural builder and serializes the result.
func (s *Service) Generate(req GenerateRequest) (res *GenerateResult, err error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveBuild(time.Since(start), err)
		}
	}()

	if req.Units > s.generator.MaxUnits {
		return nil, errors.New(errors.CodeChainInvalidUnits, "units exceeds configured maximum").
			WithDetail("got %d, max %d", req.Units, s.generator.MaxUnits)
	}

	c, err := chain.Build(s.buildParams(req))
	if err != nil {
		return nil, err
	}

	data, err := xyz.Marshal(xyz.FromChain(c, req.Comment))
	if err != nil {
		return nil, err
	}

	res = &GenerateResult{
		Chain:     c,
		XYZ:       string(data),
		AtomCount: c.AtomCount(),
		BondCount: len(c.Bonds),
	}
	if req.SaveAs != "" {
		res.SavedPath, err = s.save(req.SaveAs, data)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("chain generated",
		logging.Int("units", req.Units),
		logging.Int("atoms", res.AtomCount),
		logging.Duration("elapsed", time.Since(start)))
	return res, nil
}

// RepeatRequest carries monomer-repeater parameters. The source document
// bytes are passed separately so transports can stream uploads however they
// like.
type RepeatRequest struct {
	Units   int         `json:"units"`
	Offset  *chain.Vec3 `json:"offset,omitempty"`
	Strict  bool        `json:"strict,omitempty"`
	Comment string      `json:"comment,omitempty"`
	SaveAs  string      `json:"save_as,omitempty"`
}

// RepeatResult is the outcome of a monomer repeat.
type RepeatResult struct {
	XYZ          string `json:"xyz"`
	AtomCount    int    `json:"atom_count"`
	MonomerAtoms int    `json:"monomer_atoms"`
	SkippedLines []int  `json:"skipped_lines,omitempty"`
	SavedPath    string `json:"saved_path,omitempty"`
}

// Repeat parses the monomer document and tiles it along the configured (or
// requested) offset.
func (s *Service) Repeat(monomer []byte, req RepeatRequest) (res *RepeatResult, err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRepeat(err)
		}
	}()

	if req.Units > s.repeater.MaxUnits {
		return nil, errors.New(errors.CodeChainInvalidUnits, "units exceeds configured maximum").
			WithDetail("got %d, max %d", req.Units, s.repeater.MaxUnits)
	}

	doc, err := s.parse(monomer, req.Strict)
	if err != nil {
		return nil, err
	}

	offset := s.repeater.Offset()
	if req.Offset != nil {
		offset = *req.Offset
	}

	repeated, err := chain.Repeat(doc.Chain(), chain.RepeatParams{
		Units:  req.Units,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	comment := req.Comment
	if comment == "" {
		comment = doc.Comment
	}
	data, err := xyz.Marshal(xyz.FromChain(repeated, comment))
	if err != nil {
		return nil, err
	}

	res = &RepeatResult{
		XYZ:          string(data),
		AtomCount:    repeated.AtomCount(),
		MonomerAtoms: len(doc.Atoms),
		SkippedLines: doc.SkippedLines,
	}
	if req.SaveAs != "" {
		res.SavedPath, err = s.save(req.SaveAs, data)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("monomer repeated",
		logging.Int("units", req.Units),
		logging.Int("monomer_atoms", res.MonomerAtoms),
		logging.Int("atoms", res.AtomCount))
	return res, nil
}

// InspectReport summarizes a parsed XYZ document for diagnostic surfaces.
type InspectReport struct {
	Comment       string         `json:"comment"`
	DeclaredCount int            `json:"declared_count"`
	AtomCount     int            `json:"atom_count"`
	Elements      map[string]int `json:"elements"`
	SkippedLines  []int          `json:"skipped_lines,omitempty"`
	BoundsMin     chain.Vec3     `json:"bounds_min"`
	BoundsMax     chain.Vec3     `json:"bounds_max"`
}

// Inspect parses a document and reports its structure without transforming
// it. With strict=false the report also reveals what a lenient parse had to
// drop, which is how operators investigate suspicious third-party files.
func (s *Service) Inspect(data []byte, strict bool) (*InspectReport, error) {
	doc, err := s.parse(data, strict)
	if err != nil {
		return nil, err
	}

	c := doc.Chain()
	min, max := c.BoundingBox()
	return &InspectReport{
		Comment:       doc.Comment,
		DeclaredCount: doc.DeclaredCount,
		AtomCount:     c.AtomCount(),
		Elements:      c.ElementCounts(),
		SkippedLines:  doc.SkippedLines,
		BoundsMin:     min,
		BoundsMax:     max,
	}, nil
}

// parse runs the codec in the requested mode and records parse metrics.
func (s *Service) parse(data []byte, strict bool) (*xyz.Document, error) {
	mode := xyz.Lenient
	if strict {
		mode = xyz.Strict
	}
	doc, err := xyz.Unmarshal(data, xyz.WithMode(mode))
	if s.metrics != nil {
		skipped := 0
		if doc != nil {
			skipped = len(doc.SkippedLines)
		}
		s.metrics.ObserveParse(mode.String(), skipped, err)
	}
	if err != nil {
		return nil, err
	}
	if len(doc.SkippedLines) > 0 {
		s.logger.Warn("lenient parse dropped malformed lines",
			logging.Int("count", len(doc.SkippedLines)))
	}
	return doc, nil
}

// save persists serialized output through the store.
func (s *Service) save(name string, data []byte) (string, error) {
	if s.store == nil {
		return "", errors.Internal("document store is not configured")
	}
	return s.store.Save(name, data)
}

// Store returns the underlying document store; nil when saving is disabled.
func (s *Service) Store() *fsstore.Store {
	return s.store
}
