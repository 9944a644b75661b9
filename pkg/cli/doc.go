/*
Package cli provides shared helpers for the gavel command line tool.

The package holds the pieces the individual commands have in common so
the command files under cmd/gavel stay focused on flag wiring and
command logic:

  - Exit codes and the ExitError type that maps a command failure to a
    process exit status.
  - Output format selection (text, json, csv) and JSON encoding.
  - Aligned table rendering for terminal listings.
  - Signal handling for long running commands.

# Exit Codes

Commands report failures as errors; Execute translates the error chain
into an exit status with ExitCode. A plain error exits with
ExitFailure. Commands that need a distinct status, such as validation
failures, wrap the cause with NewExitError:

	if _, err := reg.Load(ctx); err != nil {
		return cli.NewExitError(cli.ExitInvalid, err)
	}

# Output

ParseOutputFormat validates a --format flag value up front so commands
fail before doing any work. OpenOutput resolves the --output flag to a
writer, defaulting to standard output.

# Signals

SetupSignalHandler returns a context cancelled on the first SIGINT or
SIGTERM. Long running commands pass it to their blocking calls:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
