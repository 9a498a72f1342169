/*
Package ports defines the interfaces between the turing engine and its
adapters.

# Key Interfaces

  - Engine: parse, run and transform, as driven by the HTTP and MCP adapters.
  - TransformCache: storage for transformation results (memory or Redis).
*/
package ports
