// Package services contains the application services behind the Snapgram
// CLI: authentication, follow relationships, feed composition, profiles and
// uploads, and user search. Services talk to the gateway only through
// client.Client and never keep remote state locally before the gateway has
// confirmed it.
package services
