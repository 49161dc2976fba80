// Package entity defines the in-memory data model for controller code
// artifacts: the CodeUnit value type and the EntitySet snapshot container.
//
// A CodeUnit is one named artifact (program, function block, function, global
// variable list, method, instruction or type definition) with a normalized
// textual body. An EntitySet is an immutable snapshot of one project state:
// a mapping from qualified name to CodeUnit with unique keys.
//
// # Normalization
//
// Every body entering an EntitySet passes through Normalize: line endings
// collapsed to \n, trailing whitespace stripped per line, exactly one
// trailing newline. Re-extracting an unchanged source therefore yields a
// byte-identical body, which the differ relies on.
//
// # Identity
//
// Top-level artifacts use their own name as the qualified name. Methods are
// owned by a POU and use "Owner/Method". On disk a method lives in a file
// named {Owner}_{Method}.meth.st; the owner is recovered by splitting on the
// last underscore.
package entity
