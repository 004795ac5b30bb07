/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

Every entity is stored as one item. The attributes are the entity's columns,
holding the values its transformer chains produce, and the identifier column
is the partition key. The table comes from @entity unless WithTableName
overrides it.

	client, err := ddb.NewDynamoDBClient(ctx, accessKey, secretKey, region)
	store, err := ddb.NewDynamodbDataStore[User](client, reg, ddb.WithLogger(logger))
	err = store.Put(ctx, &User{Name: "ada"}) // identifier generated on the way

Insert adds a condition so an existing identifier yields a
ConditionFailedError instead of an overwrite.
*/
package ddb
