/*
Package entitymeta is the metadata core of an annotation-driven object
relational mapper: it turns declared annotations into validated, cached,
per-class entity metadata and runs identifier generation and value
transformation for the persistence layer.

The pipeline, leaf first:
  - registry: the type table and the symbol resolver
  - annotation: validated annotation instances
  - generator, transform: identifier strategies and value transformers
  - metadata: per-class entries built once and cached
  - processor: YAML declaration files
  - datastore: persistence driven by the entries

Basic Usage:

	m, _ := entitymeta.NewManager(entitymeta.WithLogger(logger))
	_ = entitymeta.RegisterClass[User](m, "app/models.User")
	_ = m.LoadFile("models.yaml")

	store, _ := mock.New[User](m.Registry)
	_ = entitymeta.RegisterDataStore[User](m, store)

	u := &User{Email: "ada@example.com"}
	err := store.Put(ctx, u) // u.ID generated by the class generator

Errors are typed; see package errors for the predicates.
*/
package entitymeta
