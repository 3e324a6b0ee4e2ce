/*
Package ports defines the driven ports (interfaces) for the stepform engine.

These interfaces decouple the navigation core from the front-ends and from
the places where finished forms end up.

# Key Interfaces

  - Engine: the stateless form engine driven by the HTTP and MCP adapters.
  - StateStore: keeps live form states for multi-session front-ends.
  - Submitter: receives a validated draft when a form is submitted.
*/
package ports
