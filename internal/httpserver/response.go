package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/service/navigation"
)

// envelope is the tagged result every API route answers with.
type envelope struct {
	OK       bool                `json:"ok"`
	Data     any                 `json:"data,omitempty"`
	Kind     domain.Kind         `json:"kind,omitempty"`
	Message  string              `json:"message,omitempty"`
	Hint     string              `json:"hint,omitempty"`
	Fields   []domain.FieldError `json:"fields,omitempty"`
	Source   navigation.Source   `json:"source,omitempty"`
	Degraded bool                `json:"degraded,omitempty"`
	Warning  string              `json:"warning,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{OK: true, Data: data})
}

func respondListing[T any](c *gin.Context, l navigation.Listing[T]) {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, envelope{OK: true, Data: items, Source: l.Source})
}

// respondWrite answers a tiered write. Failed writes report the durable
// error; cache-only successes are flagged as degraded.
func respondWrite(c *gin.Context, status int, data any, res navigation.WriteResult) {
	if !res.OK() {
		respondError(c, res.Err())
		return
	}
	c.JSON(status, envelope{
		OK:       true,
		Data:     data,
		Degraded: res.Degraded(),
		Warning:  res.Warning(),
	})
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := envelope{
		Kind:    domain.KindOf(err),
		Message: err.Error(),
		Hint:    domain.HintOf(err),
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	c.JSON(statusFor(err), body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateKey), errors.Is(err, domain.ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConnection), errors.Is(err, domain.ErrMissingRelation):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func badBody(err error) error {
	return domain.NewValidationError("invalid request body: %v", err)
}
