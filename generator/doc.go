/*
Package generator defines the primary key generation strategy and the
built-in strategies.

An entity class selects its strategy with the @idGenerator annotation; the
metadata registry instantiates it once and calls it at most once per insert:

	type Generator interface {
	    Generate(ctx context.Context, e entity.Accessor, idProperty string) (any, error)
	}

Strategies:
  - UUID: random (v4) or time-ordered (v7) UUIDs, stateless
  - ULID: monotonic ULIDs, guarded by a mutex
  - Sequence: numbers from a SequenceStore (memory, DynamoDB, Redis, SQL)
  - Composite: "{Property}" / "{next}" templates, e.g. "ORDER#{CustomerID}#{next}"

Generated values are coerced to the identifier's Go type, so a UUID strategy
can fill a string, strfmt.UUID or uuid.UUID field alike.
*/
package generator
