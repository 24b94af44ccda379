// Package templates is the registry of named story templates.
//
// A template is a [Definition]: metadata plus four factories that produce a
// fresh default [style.Style], the visible schedule elements, the per-element
// style overrides and the smart-spacing multipliers. Factories run on every
// [Definition.Instantiate] so callers can mutate what they get back.
//
// # Registry
//
// A [Registry] maps ids to definitions and has one fallback id that [Registry.Get]
// answers with whenever the requested id is unknown:
//
//	reg := templates.NewDefault(templates.Flags{})
//	def, err := reg.Get("studio")
//	inst := def.Instantiate()
//
// Registration mistakes are configuration errors: registering an id twice
// without replace, a definition missing a factory, or a fallback that is not
// registered all fail with an [errors.ErrCodeConfig] or
// [errors.ErrCodeInvalidTemplate] error, and the Must* helpers panic.
//
// # Preview templates
//
// Definitions marked Preview are hidden unless the registry was built with
// [Flags].Preview set. Flags are passed to the constructor; there is no global
// switch.
//
// # Template files
//
// [LoadFile] reads a TOML template that derives from a registered base and
// overrides any of its parts.
package templates
