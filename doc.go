/*
Package turing parses, runs and transforms Turing machines described in YAML.

A machine document names its blank symbol, its start state and a transition
table. Multi-tape machines (up to nine tapes) declare `tapes:` and use a
compact instruction grammar; see package parser for the full document format.

# Concept

The module is split the same way as any hexagonal service: package domain
holds the data model, package parser turns documents into a validated
domain.Spec, package machine steps a machine over tapes, and package
transform rewrites single-tape machines into equivalent ones (a universal
machine program, or a machine over the binary alphabet). Adapters expose the
Engine over HTTP, MCP and the command line.

# Key Features

  - Precise diagnostics: every invalid document yields a domain.SpecError with a reason, a location and the document line.
  - Deterministic execution with step limits and cancellation.
  - Universal and Shannon binary encodings, with annotated sources and decoding of the resulting tapes.
  - Cached transformations (in memory or Redis) and Prometheus counters.

# Usage

	eng := turing.New()

	spec, err := eng.Parse(ctx, []byte(doc), false)
	if err != nil {
		log.Fatal(err)
	}

	report, err := eng.Run(ctx, spec, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.State, report.Tapes[0].Contents)

	bin, err := eng.Transform(ctx, transform.KindBinary, spec)
*/
package turing
