// Package bind converts between Go values and trees.
//
// A Model is a binding strategy for exactly one Go type. DataModel[T] is its
// typed form. Models come from four places, consulted in this order by a
// Registry:
//
//   - declared models: Registry.Register(bind.Custom[T](...))
//   - factories: WithFactory / AddFactory, then MethodFactory and
//     ExportableFactory
//   - reflection: a binding constructor registered with
//     Registry.Constructor, else struct fields and builtin kinds
//
// # Reflection
//
// Struct fields are named by the bind tag:
//
//	type Apple struct {
//		Seeds int `bind:"field=seeds"`
//		Note  string `bind:"field=note,optional"`
//		cache []byte
//	}
//
// A binding constructor declares the parameters instead. Values are read
// back through accessor methods (Color(), IsColor(), GetColor()) or a field
// of the same name, exported or not:
//
//	reg.Constructor(NewCherry, "color")
//
// Write emits one mapping entry per parameter in declared order; Read
// requires a mapping and fails with tree.ErrMissingField for an absent
// required key.
//
// # Custom and Translated Models
//
// Custom and CustomFunc wrap hand written code, which may delegate to
// ByReflection after remapping keys. Translate binds a type through a
// resource type; ExportableFactory does the same for types with
// ToResource/ToModel methods.
//
// # Method Hooks
//
// Types implementing TreeMarshaler and TreeUnmarshaler (on the pointer)
// bind themselves through MethodFactory.
package bind
