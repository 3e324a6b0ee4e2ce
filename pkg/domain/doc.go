/*
Package domain contains the core domain models of the stepform engine.

It defines the runtime snapshot of a multi-step form (State), the draft values it
carries, the read-only views handed to front-ends, and the lifecycle events fired
on transitions. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - State: the navigation snapshot of one form instance (current step, draft, errors).
  - Draft: the in-progress, not-yet-submitted field values.
  - StepView: what a front-end needs to render the active step.
  - SummaryEntry: one (label, value) row of the review step.
  - Submission: the finalized draft handed to a submitter.
*/
package domain
