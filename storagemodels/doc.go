/*
Package storagemodels defines the data structures shared between the metadata
registry and the storage adapters.

Row:
A record in storage representation. Columns keep the declaration order of
the entity's properties, which storage adapters use as the default column
order of the statements they build:

	row, err := entry.ToStorage(e)
	for i, col := range row.Columns {
	    fmt.Printf("%s = %v\n", col, row.Values[i])
	}

Values in a Row have already been through the property's transformer chain;
reading a Row back into an entity runs the chains in reverse.
*/
package storagemodels
