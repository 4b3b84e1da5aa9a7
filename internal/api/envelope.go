package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinematch/cinematch-server/internal/http/response"
)

// EnvelopeVersion is the version carried in every response's "v" field.
const EnvelopeVersion = response.EnvelopeVersion

// APIEnvelope wraps successful responses and uncoded errors.
type APIEnvelope = response.Envelope

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope = response.ErrorEnvelope

// EnvelopeTransformer is a huma transformer that wraps every response body
// in the versioned envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		if body.Code == "" {
			return APIEnvelope{Version: EnvelopeVersion, Error: body.Message}, nil
		}
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	case error:
		return APIEnvelope{Version: EnvelopeVersion, Error: body.Error()}, nil
	}

	code, _ := strconv.Atoi(status)
	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: code < 400,
		Data:    v,
	}, nil
}
