// Package ingest turns MQTT sensor messages into stored temperature readings.
//
// Sensors publish one JSON object per sample on <prefix>/readings/<room_id>:
//
//	{"temperature": 21.5, "humidity": 41, "recorded_at": "2024-01-14T08:30:00Z"}
//
// recorded_at is optional and defaults to the time the message arrived. Each
// valid sample is written through reading.Repository, which makes it visible
// to the temperatureReadings query at once, and then optionally mirrored to
// InfluxDB. Bad payloads and unknown rooms are logged and counted, never fatal.
package ingest
