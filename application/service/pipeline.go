package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/mapping"
	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/domain/tabular"
)

// TableReader loads one tabular source file. Implemented by the spreadsheet
// infrastructure; a fake suffices for tests.
type TableReader interface {
	ReadTable(path, sheet string) (tabular.Table, error)
}

// PipelineParams configures one pipeline run.
type PipelineParams struct {
	Plan mapping.Plan
	// File is the default input file; a source's File field overrides it.
	File string
	// SkipResolve imports without the final resolution sweep.
	SkipResolve bool
}

// SourceReport is the outcome of importing one sheet.
type SourceReport struct {
	Collection string
	Rows       int
	Excluded   int
	Errors     []FieldError
	Warnings   []FieldWarning
	Import     ImportReport
}

// PipelineReport is the outcome of a full pipeline run.
type PipelineReport struct {
	Entities  []SourceReport
	Junctions []SourceReport
	Resolve   ResolveReport
}

// Pipeline drives a plan end to end: entity sheets, then junction sheets,
// then one resolution sweep. A sheet that fails to load or validate is
// reported and skipped; the remaining sheets still run.
type Pipeline struct {
	reader    TableReader
	validator *Validator
	importer  *Importer
	resolver  *Resolver
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(reader TableReader, validator *Validator, importer *Importer, resolver *Resolver, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		reader:    reader,
		validator: validator,
		importer:  importer,
		resolver:  resolver,
		logger:    logger,
	}
}

// Run executes the plan. Phase order is fixed: entity collections must exist
// before junction rows referencing their keys are written, and resolution
// only makes sense after both.
func (s *Pipeline) Run(ctx context.Context, params PipelineParams) (PipelineReport, error) {
	report := PipelineReport{}

	for _, src := range params.Plan.Entities {
		srcReport, err := s.runEntitySource(ctx, params.File, src)
		if err != nil {
			return report, fmt.Errorf("entity source %q: %w", src.Collection, err)
		}
		report.Entities = append(report.Entities, srcReport)
	}

	for _, src := range params.Plan.Junctions {
		srcReport, err := s.runJunctionSource(ctx, params.File, src)
		if err != nil {
			return report, fmt.Errorf("junction source %q: %w", src.Collection, err)
		}
		report.Junctions = append(report.Junctions, srcReport)
	}

	if !params.SkipResolve {
		resolveReport, err := s.resolver.ResolveAll(ctx)
		if err != nil {
			return report, fmt.Errorf("resolve: %w", err)
		}
		report.Resolve = resolveReport
	}
	return report, nil
}

func (s *Pipeline) runEntitySource(ctx context.Context, defaultFile string, src mapping.EntitySource) (SourceReport, error) {
	fields := entityFields(src)
	s.logger.Debug("importing entity source",
		"collection", src.Collection,
		"mappings", describeMappings(fields),
	)

	table, err := s.reader.ReadTable(sourceFile(defaultFile, src.File), src.Sheet)
	if err != nil {
		return SourceReport{}, err
	}

	validated, err := s.validator.ValidateTable(ctx, table, fields)
	if err != nil {
		return SourceReport{}, err
	}
	warnUnknownTargets(&validated, fields, isEntityTarget)

	// An all-excluded sheet is reported without starting an import run.
	var importReport ImportReport
	if len(validated.Records) > 0 {
		importReport, err = s.importer.ImportEntities(ctx, EntityImportParams{
			Collection: catalog.EntityType(src.Collection),
			Records:    validated.Records,
		})
		if err != nil {
			return SourceReport{}, err
		}
	}

	return SourceReport{
		Collection: src.Collection,
		Rows:       table.Len(),
		Excluded:   validated.Excluded,
		Errors:     validated.Errors,
		Warnings:   validated.Warnings,
		Import:     importReport,
	}, nil
}

func (s *Pipeline) runJunctionSource(ctx context.Context, defaultFile string, src mapping.JunctionSource) (SourceReport, error) {
	fields := junctionFields(src)
	s.logger.Debug("importing junction source",
		"collection", src.Collection,
		"mappings", describeMappings(fields),
	)

	table, err := s.reader.ReadTable(sourceFile(defaultFile, src.File), src.Sheet)
	if err != nil {
		return SourceReport{}, err
	}

	validated, err := s.validator.ValidateTable(ctx, table, fields)
	if err != nil {
		return SourceReport{}, err
	}
	warnUnknownTargets(&validated, fields, isJunctionTarget)

	// Blank relation cells fall back to the source's default classification.
	if src.DefaultRelation != "" {
		for _, rec := range validated.Records {
			if rec.String(TargetRelation) == "" {
				rec.set(TargetRelation, src.DefaultRelation)
			}
		}
	}

	var importReport ImportReport
	if len(validated.Records) > 0 {
		importReport, err = s.importer.ImportJunctions(ctx, JunctionImportParams{
			Collection: relation.JunctionType(src.Collection),
			FromType:   catalog.EntityType(src.From.Entity),
			ToType:     catalog.EntityType(src.To.Entity),
			Records:    validated.Records,
		})
		if err != nil {
			return SourceReport{}, err
		}
	}

	return SourceReport{
		Collection: src.Collection,
		Rows:       table.Len(),
		Excluded:   validated.Excluded,
		Errors:     validated.Errors,
		Warnings:   validated.Warnings,
		Import:     importReport,
	}, nil
}

// warnUnknownTargets flags mappings whose target no record field reads.
// Their values validate and are then dropped, which a plan author should
// hear about.
func warnUnknownTargets(validated *ValidationResult, fields []mapping.FieldMapping, known func(string) bool) {
	for _, field := range fields {
		// Lookup fields check a reference at validation time; their value is
		// never stored, so an unrecognized target is expected for them.
		if field.Type == mapping.FieldLookup {
			continue
		}
		if !known(field.Target) {
			validated.Warnings = append(validated.Warnings, FieldWarning{
				Field: field.Target,
				Code:  WarnUnknownTarget,
				Raw:   field.Source,
			})
		}
	}
}

// entityFields synthesizes the business-key mapping and appends the plan's
// descriptive mappings.
func entityFields(src mapping.EntitySource) []mapping.FieldMapping {
	fields := []mapping.FieldMapping{{
		Source:   src.KeyColumn,
		Target:   TargetBusinessKey,
		Type:     mapping.FieldText,
		Required: true,
	}}
	return append(fields, src.Fields...)
}

// junctionFields synthesizes the two key mappings and the optional relation
// mapping, then appends the plan's metadata mappings.
func junctionFields(src mapping.JunctionSource) []mapping.FieldMapping {
	fields := []mapping.FieldMapping{
		{Source: src.From.Column, Target: TargetFromKey, Type: mapping.FieldText, Required: true},
		{Source: src.To.Column, Target: TargetToKey, Type: mapping.FieldText, Required: true},
	}
	if src.RelationColumn != "" {
		fields = append(fields, mapping.FieldMapping{
			Source: src.RelationColumn,
			Target: TargetRelation,
			Type:   mapping.FieldText,
		})
	}
	return append(fields, src.Fields...)
}

func sourceFile(defaultFile, override string) string {
	if override != "" {
		return override
	}
	return defaultFile
}
