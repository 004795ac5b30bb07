/*
Package registry manages type registration and symbol resolution for entitymeta.

Annotations name generators and transformers by symbol instead of by Go type.
The registry system makes those symbols resolvable without dynamic loading:

  - TypeRegistry maps fully qualified symbols to factories
  - Resolver binds a symbol to a registered type, relative to a Scope
  - ClassRegistry maps entity class names to Go struct types

Type Registry:

	registry.MustRegisterType("app/ids.OrderSequence", func() any {
	    return generator.NewSequence(store, "orders")
	})

Resolution:
A symbol is looked up as written first. If that fails, aliases imported by the
declaring scope are expanded ("ids.OrderSequence" with ids → "app/ids"), and
an unqualified symbol is tried relative to the scope's namespace. Anything
else is an UnresolvableTypeError.

	rt, err := resolver.Resolve("ids.OrderSequence", source)
	gen := rt.New().(generator.Generator)

The registries are thread-safe and should be populated during initialization,
typically in init() functions or from main before any metadata is built.
*/
package registry
