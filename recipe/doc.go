// Package recipe describes reusable stream transformations as YAML
// documents and compiles them into tabstream filters.
//
// A recipe is an ordered list of steps, optionally preceded by the steps
// of included recipes:
//
//	name: clean-users
//	description: normalise the users export
//	includes: [pad-only]
//	steps:
//	  - op: rename
//	    mapping: {user_id: id}
//	  - op: delete
//	    fields: [internal_note]
//	  - op: add_field
//	    field: full_name
//	    func: concat
//	    inputs: [first, last]
//	    args: [" "]
//	  - op: add_row_number
//	    field: n
//
// Recipes live in files named after them (clean-users.yaml) in the
// configured directories. Derive functions for add_field steps come from a
// Registry; Builtins registers concat, upper, lower, trim, const and
// coalesce.
package recipe
