// Package api serves the Birch Hill GraphQL endpoint over HTTP.
//
// This package provides:
//   - The GraphQL schema (rooms, temperature readings, node lookup, room mutations)
//   - POST and GET handlers for GraphQL requests
//   - /health backed by a database ping and /metrics for Prometheus
//   - Middleware stack (request ID, logging, metrics, recovery, CORS, body limit)
//
// # Error Reporting
//
// Reads that cannot find their room surface as GraphQL errors with a null
// field. Mutations never produce GraphQL errors for domain failures: they
// return {room: null, errors: [...]} instead.
//
// The schema is built once in New and is read-only afterwards.
package api
