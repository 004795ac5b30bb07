/*
Package metadata assembles and caches the per-class entity metadata: table
name, column mappings in declaration order, the identifier property, the
bound ID generator and the transformer chain of every property.

Declarations come from a DeclarationSource, usually a StaticSource filled by
the YAML loader in package processor. Build cross-checks a declaration and
rejects inconsistent ones with an InconsistentMetadataError. Registry builds
each class once on first use:

	reg := metadata.NewRegistry(source)
	entry, err := metadata.For[User](reg)
	row, err := entry.ToStorage(acc)

Generators and transformers are instantiated lazily, once per entry. An
Insert guarantees the generator runs at most once per insert operation.
*/
package metadata
