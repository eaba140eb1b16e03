// Package cli provides the interactive Snapgram command-line client.
//
// It wires configuration, the local session database, the gateway client
// and the services, then runs a REPL. A background watcher pings the
// gateway and switches the prompt between online and offline.
//
// Commands:
//   - signup / login / logout
//   - feed
//   - profile [id] / stats [id]
//   - follow <id> / unfollow <id> / toggle <id>
//   - search <text>
//   - upload <path> [caption] / avatar <path> / relink <url>
//
// Commands that need a session print "please log in" when there is none.
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
