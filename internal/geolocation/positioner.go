package geolocation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// StaticPositioner always reports the same coordinates, stamped with the
// time of the request. Used by the CLI when the user passes --lat/--lng.
type StaticPositioner struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

func (s StaticPositioner) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, &Error{Reason: Timeout, Err: err}
	}
	return Position{
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		Accuracy:   s.Accuracy,
		ObtainedAt: time.Now(),
	}, nil
}

// EnvPositioner reads TAPEA_LAT / TAPEA_LNG (and optional TAPEA_ACCURACY)
// on every request, so each fix reflects the current environment.
type EnvPositioner struct{}

func (EnvPositioner) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, &Error{Reason: Timeout, Err: err}
	}

	latStr, lngStr := os.Getenv("TAPEA_LAT"), os.Getenv("TAPEA_LNG")
	if latStr == "" || lngStr == "" {
		return Position{}, &Error{Reason: PositionUnavailable, Err: errors.New("TAPEA_LAT/TAPEA_LNG not set")}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Position{}, &Error{Reason: PositionUnavailable, Err: fmt.Errorf("invalid TAPEA_LAT: %w", err)}
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Position{}, &Error{Reason: PositionUnavailable, Err: fmt.Errorf("invalid TAPEA_LNG: %w", err)}
	}

	var accuracy float64
	if acc := os.Getenv("TAPEA_ACCURACY"); acc != "" {
		accuracy, _ = strconv.ParseFloat(acc, 64)
	}

	return Position{Latitude: lat, Longitude: lng, Accuracy: accuracy, ObtainedAt: time.Now()}, nil
}

// DeniedPositioner models a user who refused location permission.
type DeniedPositioner struct{}

func (DeniedPositioner) CurrentPosition(context.Context, Options) (Position, error) {
	return Position{}, &Error{Reason: PermissionDenied}
}
