package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement and tag names for mirrored readings.
const (
	MeasurementReadings = "temperature_readings"
	TagRoomID           = "room_id"
)

// WriteReading queues one temperature reading, timestamped with the time the
// sample was taken. It is dropped silently when the client is not connected.
func (c *Client) WriteReading(roomID int64, temperature, humidity float64, recordedAt time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(readingPoint(roomID, temperature, humidity, recordedAt))
}

func readingPoint(roomID int64, temperature, humidity float64, recordedAt time.Time) *write.Point {
	return write.NewPoint(
		MeasurementReadings,
		map[string]string{TagRoomID: strconv.FormatInt(roomID, 10)},
		map[string]any{
			"temperature": temperature,
			"humidity":    humidity,
		},
		recordedAt,
	)
}
