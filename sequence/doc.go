/*
Package sequence holds the server-side counters behind generator.Sequence.

Every store implements generator.SequenceStore and draws values atomically on
the server, so any number of processes may share one sequence without
coordination:

  - sequence/ddb: a DynamoDB item per sequence, incremented with UpdateItem ADD
  - sequence/redisstore: a Redis key per sequence, incremented with INCR
  - sequence/sqlstore: a row per sequence, incremented with an upsert

Open returns the store selected by configuration.
*/
package sequence
