package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/adanyl0v/taskflow/internal/validation"
)

const maxBodyBytes = 16 << 10

const msgInvalidBody = "Request body must be a JSON object"

// validateBody decodes the JSON object in the request body and checks it
// against schema. An empty body is validated as an empty object. Entries of
// extra are set after decoding and take precedence over the body.
// Numbers keep their literal form when binding.EnableDecoderUseNumber is set.
func (h *handlerImpl) validateBody(c *gin.Context, schema validation.Schema, extra map[string]any) (validation.Values, error) {
	raw := make(map[string]any)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	err := c.ShouldBindBodyWith(&raw, binding.JSON)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug().
			Err(err).
			Msg("failed to decode request body")
		return nil, &validation.ValidationError{Schema: schema.Name, Messages: []string{msgInvalidBody}}
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	for k, v := range extra {
		raw[k] = v
	}

	values, err := h.validator.Validate(raw, schema)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("request failed validation")
		return nil, err
	}
	return values, nil
}

// paramID parses a numeric path parameter. Ids that can't name a row are
// reported with notFound.
func paramID(c *gin.Context, name string, notFound string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, newNotFoundError(notFound)
	}
	return id, nil
}
