// Package mqtt provides the MQTT client Birch Hill uses to receive sensor
// readings.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Topic subscriptions, restored after every reconnect
//   - Last Will and Testament (LWT) on the service status topic
//   - Connection health for the /health endpoint
//
// # Topics
//
// Every topic lives under the configured prefix (default "birchhill"):
//
//	birchhill/readings/{room_id}   sensor samples, one JSON object per message
//	birchhill/system/status        retained online/offline status of the service
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix)
//	err = client.Subscribe(topics.AllReadings(), 1,
//	    func(topic string, payload []byte) error {
//	        roomID, _ := topics.ParseReading(topic)
//	        log.Printf("room %s: %s", roomID, payload)
//	        return nil
//	    })
package mqtt
