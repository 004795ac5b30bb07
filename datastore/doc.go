/*
Package datastore persists entities through their metadata.

DataStore[T] is the generic interface every backend implements:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, id any) (*T, error)
	    Put(ctx context.Context, e *T) error
	    Insert(ctx context.Context, e *T) error
	    Delete(ctx context.Context, id any) error
	}

A Binding[T] does the metadata work shared by the backends: Put assigns a
missing identifier through the class generator, then writes the values the
transformer chains produce; reads run the chains in reverse.

Implementations:
  - ddb: DynamoDB, one item per entity keyed by the identifier column
  - mock: in-memory rows for testing
*/
package datastore
