/*
Package processor loads entity declarations from YAML.

A declaration file names the namespace its symbols resolve against, optional
import aliases, and the annotations of each entity class and property in
declaration order:

	namespace: app/models
	imports:
	  gen: entitymeta/generator
	  tr: entitymeta/transform
	entities:
	  - class: User
	    extends: [Audited]
	    annotations:
	      - entity: {table: users}
	      - idGenerator: {generator: gen.UUID}
	    properties:
	      - name: ID
	        annotations:
	          - column: {name: id}
	          - id
	      - name: CreatedAt
	        annotations:
	          - column: {name: created_at, type: timestamptz}
	          - transformer: {transformer: tr.DateTime}

Every annotation goes through annotation.Parser, so the errors it reports
(validation, unresolvable types) come back wrapped with the file, class,
property and line they were found at.

Classes are bound to Go types through a registry.ClassRegistry, under
"namespace.Class" or the bare class name. Schema.Register feeds bound
declarations to a metadata.StaticSource; Schema.Build assembles entries
directly, following extends, which is what the CLI validates with.
*/
package processor
