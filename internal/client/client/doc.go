// Package client contains the client-side building blocks for Snapgram.
//
// # Overview
//
// The package provides:
//  1. The gateway contract (see the Client interface) consumed by the
//     services: users, posts, follows, content uploads and Ping.
//  2. GatewayClient, which implements Client on top of the gateway
//     PostgreSQL repositories and the S3 content store. Each call runs under
//     the retry-once policy of package retryx; failures that survive it are
//     wrapped in common.ErrorTransientGateway.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     CLI's SQLite database.
//
// # Error Handling
//
// Classified conditions are the sentinels of package common. Ping wraps
// driver failures in ErrUnavailable.
package client
