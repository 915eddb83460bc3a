package http

import (
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Headers set by the upstream authentication layer.
const (
	HeaderActorRole = "X-Actor-Role"
	HeaderActorID   = "X-Actor-ID"
)

const actorContextKey = "actor"

var errMissingActor = errors.New("actor headers are required")

// ActorFromHeaders stores the calling actor in the echo context. Requests
// without actor headers pass through; handlers that need an actor reject them.
func ActorFromHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role := c.Request().Header.Get(HeaderActorRole)
		id := c.Request().Header.Get(HeaderActorID)
		if role == "" && id == "" {
			return next(c)
		}

		actor, err := parseActor(role, id)
		if err != nil {
			return err
		}
		c.Set(actorContextKey, actor)
		return next(c)
	}
}

func parseActor(role, id string) (kernel.Actor, error) {
	parsedRole, err := kernel.ParseRole(role)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%s: %w", HeaderActorRole, err)
	}
	parsedID, err := kernel.UUIDFromString(id)
	if err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderActorID, err)
	}
	return kernel.NewActor(parsedRole, parsedID)
}

func actorOf(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errMissingActor
	}
	return actor, nil
}
