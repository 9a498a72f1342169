/*
Package parser turns a YAML machine description into a validated domain.Spec.

The parser works on the decoded yaml.v3 node tree rather than on plain Go
maps, so the declaration order of states and symbols survives and every
error can point at the line it came from.

A minimal document:

	blank: ' '
	start state: a
	table:
	  a:
	    ' ': {write: x, R: b}
	  b:

Machines with several tapes opt in with allowMultiTape and declare the count
with `tapes`. Their instructions use a compact string grammar:

	next 1R0 2L

which moves to state `next`, writes 0 on tape 1 and moves it right, and
moves tape 2 left without writing. An underscore writes the blank symbol.

Semantic problems are reported as *domain.SpecError. Malformed YAML is
returned as the yaml.v3 error, unwrapped.
*/
package parser
