// Package field defines the pluggable typed-field contract: immutable
// descriptors carrying identity and validation patterns, the validation
// algorithm, ordered extension hooks, the per-request render context and the
// registry that resolves a short type tag (for example "color") to exactly
// one FieldType implementation.
//
// Concrete field types live in pkg/fieldtypes; storage collaborators are
// declared in pkg/store. Nothing in this package performs I/O.
package field
