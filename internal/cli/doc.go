// Package cli is the terminal admin console.
//
// It drives the same session, API client and formatting as the web console
// from a read-eval-print loop. Tokens live in the "cli" storage namespace
// and there is no cookie mirror. When the API insists on a new login the
// user is told to run "login" again.
//
// Commands
//
//	login                        sign in (password is read without echo)
//	logout                       forget the stored tokens
//	stats                        dashboard counters
//	users [limit] [offset] [k=v] list users; k is is_active, is_verified or is_admin
//	user <id>                    one user with short subscription and transaction lists
//	subs <id> [limit] [offset]   a user's subscriptions
//	txs <id> [limit] [offset]    a user's transactions
//	help                         list commands
//	exit | quit                  leave
package cli
