/*
Package domain contains the core data model shared by the parser, the
execution engine and the transformations.

It defines the entities of a Turing machine description and is kept free of
I/O and document decoding, following the same hexagonal split as the rest of
the module: adapters and parsers produce these values, the engine consumes
them.

# Key Entities

  - Spec: the validated machine description (blank, tape count, start state, table).
  - Table: ordered mapping from states to their transition cells, or the halting marker.
  - Instruction: an immutable transition result (per-tape writes and moves, next state).
  - Vis: per-state highlighting rules consumed by renderers.
  - SpecError: the structured failure returned for semantically invalid documents.
*/
package domain
