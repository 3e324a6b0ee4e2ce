/*
Package stepform is a multi-step form engine: it collects structured input across
a sequence of steps, validates each step before allowing forward navigation, and
presents an ordered summary for confirmation before handing the draft off.

The form is described as plain data (a schema.Form: fields with declarative rules,
and steps that own them). The engine is a small state machine over an explicit
state value: every transition takes a state and returns a new one, so the same
engine can drive a terminal prompt, an HTTP API or an MCP server.

# Concept

A form with N steps has N-1 input steps followed by a review step.

  - SetField stores a value and validates that field immediately.
  - Advance validates the active step and moves forward only when it is valid.
  - Retreat moves back without touching the draft.
  - Submit, on the review step, re-validates everything, hands the draft to the
    configured Submitter and resets the form.

# Usage

	eng, err := stepform.New(forms.Signup(), stepform.WithSubmitter(outbox))
	if err != nil {
		log.Fatal(err)
	}

	form := eng.NewForm(ctx)
	_ = form.SetField(ctx, forms.FieldEmail, "ada@example.com")
	if !form.Advance(ctx) {
		fmt.Println(form.Errors())
	}

Front-ends that serve many sessions use the Engine directly and keep one
domain.State per session.
*/
package stepform
