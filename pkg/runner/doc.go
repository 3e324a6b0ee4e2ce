/*
Package runner drives a form from a terminal or a pipe.

It is the bridge between the stateless engine and a single user: it renders the
active step, prompts for each field, forwards the answers and stops once the
draft has been submitted or the user leaves.

# Key Components

  - Runner: the prompt loop.
  - IOHandler: decouples how steps are shown and answers are read.
  - TextHandler: interactive terminal IO, with hidden input for secret fields.
  - JSONHandler: JSON-Lines IO for scripted or headless use.
  - Sanitizer: size and control-character limits applied to every answer.

# Usage

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithRenderer(tui.NewRenderer()),
	)

	sub, err := r.Run(ctx, engine)
*/
package runner
