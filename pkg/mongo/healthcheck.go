package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Healthcheck returns a readiness probe for the given client.
//
// The returned function performs a lightweight ping. The authentication
// middleware invokes it before every session lookup so that an unreachable
// database is reported as a distinct "service unavailable" outcome instead
// of being mistaken for an invalid session.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
