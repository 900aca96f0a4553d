package mqtt

import "strings"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "birchhill"

// Topics builds and parses Birch Hill topic names under one prefix.
//
//	topics := mqtt.NewTopics("home")
//	topics.Reading("3")   // "home/readings/3"
//	topics.AllReadings()  // "home/readings/+"
type Topics struct {
	prefix string
}

// NewTopics returns topic helpers rooted at prefix. Surrounding slashes are
// trimmed and an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the root all topics share.
func (t Topics) Prefix() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// Reading returns the topic sensors publish samples for one room on.
//
// Example: birchhill/readings/3
func (t Topics) Reading(roomID string) string {
	return t.Prefix() + "/readings/" + roomID
}

// AllReadings returns the wildcard subscription covering every room.
//
// Example: birchhill/readings/+
func (t Topics) AllReadings() string {
	return t.Reading("+")
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: birchhill/system/status
func (t Topics) SystemStatus() string {
	return t.Prefix() + "/system/status"
}

// ParseReading extracts the room ID from a reading topic. It reports false
// for topics outside the readings hierarchy or with extra levels.
func (t Topics) ParseReading(topic string) (string, bool) {
	roomID, ok := strings.CutPrefix(topic, t.Prefix()+"/readings/")
	if !ok || roomID == "" || strings.Contains(roomID, "/") {
		return "", false
	}
	return roomID, true
}
