package youtube

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

// retriableStatuses are the HTTP responses worth retrying; everything else
// is treated as a permanent failure of the attempt.
var retriableStatuses = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Retriable reports whether err is a transient upload failure: a retriable
// HTTP status from the API, a network-level error, or a truncated body.
func Retriable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retriableStatuses[apiErr.Code]
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// BackoffDelay computes the randomized exponential delay before retry
// number attempt (starting at 1): a uniform draw from [0, 2^attempt)
// seconds.
func BackoffDelay(attempt int, rng *rand.Rand) time.Duration {
	seconds := rng.Float64() * math.Pow(2, float64(attempt))
	return time.Duration(seconds * float64(time.Second))
}
