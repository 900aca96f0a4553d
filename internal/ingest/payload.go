package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nerrad567/birchhill-core/internal/reading"
)

// ErrInvalidMessage is returned for messages that cannot become a reading.
var ErrInvalidMessage = errors.New("ingest: invalid reading message")

// Message is the JSON body sensors publish.
type Message struct {
	Temperature *float64   `json:"temperature"`
	Humidity    *float64   `json:"humidity"`
	RecordedAt  *time.Time `json:"recorded_at,omitempty"`
}

// decodeReading builds a reading from a topic room ID and a payload.
// received stamps samples that carry no recorded_at.
func decodeReading(rawRoomID string, payload []byte, received time.Time) (*reading.TemperatureReading, error) {
	roomID, err := strconv.ParseInt(rawRoomID, 10, 64)
	if err != nil || roomID <= 0 {
		return nil, fmt.Errorf("%w: room id %q is not a positive integer", ErrInvalidMessage, rawRoomID)
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.Temperature == nil {
		return nil, fmt.Errorf("%w: temperature is required", ErrInvalidMessage)
	}
	if msg.Humidity == nil {
		return nil, fmt.Errorf("%w: humidity is required", ErrInvalidMessage)
	}

	recordedAt := received
	if msg.RecordedAt != nil {
		recordedAt = *msg.RecordedAt
	}

	return &reading.TemperatureReading{
		RoomID:      roomID,
		Temperature: *msg.Temperature,
		Humidity:    *msg.Humidity,
		RecordedAt:  recordedAt.UTC(),
	}, nil
}
