// Package resolver is the single entry surface for queries and mutations.
//
// It composes the room and reading repositories with the cursor paginator and
// turns domain failures into the shapes the transport layer exposes:
//
//   - Reads (Room, Rooms, TemperatureReadings) return errors, which the
//     GraphQL layer surfaces as field errors.
//   - Mutations (CreateRoom, UpdateRoom) never return an error. Every failure
//     is reported inline in RoomPayload.Errors.
//
// IDs arrive as the strings a client sent. An ID that is not a valid integer
// is treated exactly like an ID with no matching row.
package resolver
