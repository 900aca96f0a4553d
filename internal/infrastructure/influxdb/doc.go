// Package influxdb mirrors ingested temperature readings into InfluxDB v2.
//
// SQLite stays the source of truth for the API. The mirror exists for
// dashboards and long-range queries, so writes are non-blocking and batched,
// and a failed write never fails ingestion. Batch errors are delivered to the
// callback set with SetOnError.
//
// Each reading becomes one point:
//
//	temperature_readings,room_id=3 humidity=41,temperature=21.5 <recorded_at>
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteReading(3, 21.5, 41, recordedAt)
package influxdb
