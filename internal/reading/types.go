package reading

import "time"

// TemperatureReading is one sample taken in a room.
type TemperatureReading struct {
	// ID is the auto-incremented primary key.
	ID int64 `json:"id"`

	// RoomID references the room the sample was taken in.
	RoomID int64 `json:"room_id"`

	// Temperature in degrees Celsius.
	Temperature float64 `json:"temperature"`

	// Humidity as relative humidity percent.
	Humidity float64 `json:"humidity"`

	// RecordedAt is when the sensor took the sample (UTC).
	// It is distinct from CreatedAt, which is when the row was written.
	RecordedAt time.Time `json:"recorded_at"`

	CreatedAt time.Time `json:"created_at"`
}
