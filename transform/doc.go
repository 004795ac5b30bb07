/*
Package transform defines the value transformer contract and the built-in
transformers.

A transformer is attached to a property with the @transformer annotation and
converts the property on its way to storage and back:

	type ValueTransformer interface {
	    ToStorageValue(e entity.Accessor, property string) (any, error)
	    ToEntityValue(table, column string, value any) (any, error)
	}

Several transformers on one property form a Chain. On write the first declared
transformer runs first and its output is what the next one reads; on read the
chain runs backwards, so the composition stays invertible end to end.

Built-ins:
  - JSON[T]: any value ↔ JSON string
  - DateTime: strfmt.DateTime / time.Time ↔ RFC 3339 string
  - UUID: uuid.UUID / strfmt.UUID ↔ 16 bytes
  - Enum: string name ↔ int64 code
*/
package transform
