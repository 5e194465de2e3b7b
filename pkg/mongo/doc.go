// Package mongo provides MongoDB connection management for the service.
//
// Configuration is entirely environment-driven, connection establishment
// retries transient failures, and a ping-based Healthcheck integrates with
// the authentication middleware's readiness check and with orchestration
// probes.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(context.Background())
//
// Connection failures are wrapped in package sentinels compatible with
// errors.Is.
package mongo
