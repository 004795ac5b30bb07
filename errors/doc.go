/*
Package errors provides semantic error types for the entitymeta library.

Each failure mode of metadata loading and value mapping has its own type, all
of which can be checked with the standard errors.Is() function or the provided
helper functions.

Common Errors:

	var (
	    ErrMetadataValidation   = errors.New("metadata validation failed")
	    ErrUnresolvableType     = errors.New("unresolvable type")
	    ErrInconsistentMetadata = errors.New("inconsistent metadata")
	    ErrGeneration           = errors.New("identifier generation failed")
	    ErrMissingContext       = errors.New("missing source context")
	    ErrTransform            = errors.New("value transformation failed")
	)

Usage:

	entry, err := reg.MetadataFor(reflect.TypeOf(User{}))
	if err != nil {
	    if errors.IsInconsistentMetadata(err) {
	        // a generator without an @id property, two identifiers, ...
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewMissingPropertyError("entity", "table")
	err := errors.NewGenerationError("Order", "ID", "generator.Sequence", cause)

None of these errors is retried or swallowed by the library; they always
reach the caller with the class, property and annotation that caused them.
*/
package errors
