/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitymeta

import (
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/registry"
	"github.com/suparena/entitymeta/transform"
)

// Names of the built-in generator and transformer types. Declarations usually
// import the packages under short aliases:
//
//	imports:
//	  gen: entitymeta/generator
//	  tr: entitymeta/transform
const (
	GeneratorUUID     = "entitymeta/generator.UUID"
	GeneratorUUIDv7   = "entitymeta/generator.UUIDv7"
	GeneratorULID     = "entitymeta/generator.ULID"
	GeneratorSequence = "entitymeta/generator.Sequence"

	TransformJSON     = "entitymeta/transform.JSON"
	TransformDateTime = "entitymeta/transform.DateTime"
	TransformUUID     = "entitymeta/transform.UUID"
)

// RegisterBuiltins registers the built-in generators and transformers with
// types. The sequence generator is registered only when store is not nil.
func RegisterBuiltins(types *registry.TypeRegistry, store generator.SequenceStore) error {
	factories := []struct {
		name    string
		factory registry.Factory
	}{
		{GeneratorUUID, func() any { return generator.UUID{Version: 4} }},
		{GeneratorUUIDv7, func() any { return generator.UUID{Version: 7} }},
		{GeneratorULID, func() any { return generator.NewULID() }},
		{TransformJSON, func() any { return transform.JSON[any]{} }},
		{TransformDateTime, func() any { return transform.DateTime{} }},
		{TransformUUID, func() any { return transform.UUID{} }},
	}
	if store != nil {
		factories = append(factories, struct {
			name    string
			factory registry.Factory
		}{GeneratorSequence, func() any { return generator.NewSequence(store, "") }})
	}
	for _, f := range factories {
		if err := types.Register(f.name, f.factory); err != nil {
			return err
		}
	}
	return nil
}
