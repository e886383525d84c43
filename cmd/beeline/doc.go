// The beeline program is a command-line client for Beeminder (https://www.beeminder.com).
//
// The personal auth token is expected in the BEEMINDER_API_KEY environment variable. Nothing else is required;
// optional settings (editor, endpoint, user, wire_log, recent, recovery_dir, debug) can be put in a YAML file at
// $BEELINE_CONFIG, or ~/.config/beeline/config.yaml by default. EDITOR and BEELINE_DEBUG override the file.
//
// Commands:
//
//	beeline list                           # active goals, most urgent first
//	beeline add <goal> <value> [<comment>]  # prints the new datapoint's id
//	beeline edit <goal>                     # edit the 20 most recent datapoints
//	beeline backup [<file>]                 # all goals and datapoints, JSON or YAML
//
// The edit command writes the datapoints to a temporary file as blocks like
//
//	id: 65f1d2a4e1b2c3
//	value: 30
//	timestamp: 2024-03-01 07:45:00 +0100
//	comment: morning run
//
// and opens it in $EDITOR (or an acme window if EDITOR is "acme"). When the editor exits, blocks that were removed
// are deleted, changed blocks are updated and blocks without id are created, in that order. The first failing
// remote call stops the process; the edited text is then saved under ~/.cache/beeline so that it can be retried
// with --from. Invalid text or unknown ids abort before any remote call, saving the text the same way.
package main // import "github.com/nicolagi/beeminder/cmd/beeline"
