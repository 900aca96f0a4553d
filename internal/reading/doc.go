// Package reading stores temperature and humidity samples taken in rooms.
//
// Readings enter through the MQTT ingestion path and are read-only from the
// API's point of view. Lists for a room are ordered newest first by the time
// the sample was taken (recorded_at), with the row id breaking ties, so the
// ordering is total and safe to paginate.
package reading
