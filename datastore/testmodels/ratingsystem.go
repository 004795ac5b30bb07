/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/entitymeta/annotation"
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/registry"
	"github.com/suparena/entitymeta/transform"
)

type RatingSystem struct {

	// Timestamp when the rating system was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime

	// A description of the rating system.
	Description *string

	// Unique identifier for the rating system, generated on insert.
	ID string

	// Name of the rating system.
	// Required: true
	Name *string

	// site Url
	SiteURL string

	// Timestamp when the rating system was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime
}

// Registry returns a metadata registry that knows RatingSystem, stored in the
// rating_systems table.
func Registry() (*metadata.Registry, error) {
	types := registry.NewTypeRegistry()
	types.MustRegister("entitymeta/generator.UUID", func() any { return generator.UUID{} })
	types.MustRegister("entitymeta/transform.DateTime", func() any { return transform.DateTime{} })

	p := annotation.NewParser(registry.NewResolver(types))
	src := &annotation.Source{
		File:    "ratingsystem.go",
		Package: "testmodels",
		Imports: map[string]string{"gen": "entitymeta/generator", "tr": "entitymeta/transform"},
	}
	parse := func(kind string, props annotation.Properties) annotation.Annotation {
		a, err := p.Parse(kind, props, src)
		if err != nil {
			panic(err)
		}
		return a
	}
	column := func(name string) annotation.Annotation {
		return parse(annotation.KindColumn, annotation.Properties{"name": name})
	}
	dateTime := parse(annotation.KindTransformer, annotation.Properties{"transformer": "tr.DateTime"})

	static := metadata.NewStaticSource()
	err := metadata.Declare[RatingSystem](static, metadata.Declaration{
		Class: "RatingSystem",
		Annotations: []annotation.Annotation{
			parse(annotation.KindEntity, annotation.Properties{"table": "rating_systems"}),
			parse(annotation.KindIdGenerator, annotation.Properties{"generator": "gen.UUID"}),
		},
		Properties: []metadata.PropertyDeclaration{
			{Name: "ID", Annotations: []annotation.Annotation{column("id"), parse(annotation.KindId, nil)}},
			{Name: "Name", Annotations: []annotation.Annotation{column("name"), parse(annotation.KindNotNull, nil)}},
			{Name: "Description", Annotations: []annotation.Annotation{column("description")}},
			{Name: "SiteURL", Annotations: []annotation.Annotation{column("site_url")}},
			{Name: "CreatedAt", Annotations: []annotation.Annotation{column("created_at"), dateTime}},
			{Name: "UpdatedAt", Annotations: []annotation.Annotation{column("updated_at"), dateTime}},
		},
	})
	if err != nil {
		return nil, err
	}
	return metadata.NewRegistry(static), nil
}
