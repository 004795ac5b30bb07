/*
Package annotation turns raw annotation property maps into validated,
immutable annotation instances.

The declaration parser (see package processor) hands over, for every
annotation occurrence, its kind, its property map and the Source it was
declared in:

	parser := annotation.NewParser(resolver)
	src := &annotation.Source{
	    File:    "models.yaml",
	    Package: "app/models",
	    Imports: map[string]string{"gen": "entitymeta/generator"},
	}
	a, err := parser.Parse("idGenerator", annotation.Properties{"generator": "gen.UUID"}, src)

Construction maps the recognized properties, rejects unknown ones, checks the
required ones and resolves type symbols. Every failure is returned at once:
MetadataValidationError for a missing or malformed property,
UnresolvableTypeError for an unknown symbol and MissingContextError when a
symbol has to be resolved without a Source.

Built-in kinds: entity, idGenerator, column, id, autoIncrement, notNull,
unique, size and transformer. Parser.Register adds more.
*/
package annotation
