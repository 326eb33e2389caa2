/*
Package runner implements the interactive chat loop over a guidebot session.

It bridges a Session and a terminal or a structured stream. Free text is
sanitized and submitted; numbers pick an option of the latest bot message;
/links, /open <n> and /close are commands.

# Key Components

  - Runner: reads input, dispatches commands and renders new transcript entries.
  - IOHandler: decouples the loop from the interaction mode.
  - TextHandler: line-oriented terminal IO with a typing indicator.
  - JSONHandler: NDJSON events for programmatic hosts.

# Usage

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)))
	if err := r.Run(ctx, engine.NewSession()); err != nil {
		log.Fatal(err)
	}
*/
package runner
