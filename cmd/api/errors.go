package main

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	// report json names, not Go field names, in validation errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// fieldMessages are the client messages for failed binding rules, keyed by
// "<field>.<tag>".
var fieldMessages = map[string]string{
	"email.required":      "Enter a valid email",
	"email.email":         "Enter a valid email",
	"friendname.required": "Enter a valid email",
	"friendname.email":    "Enter a valid email",
	"password.required":   "Password must be at least 8 characters long",
	"password.min":        "Password must be at least 8 characters long",
	"password.max":        "Password must be at most 72 characters long",
	"age.required":        "Age must be a positive integer",
	"age.min":             "Age must be a positive integer",
	"id.required":         "id is required",
	"membersId.required":  "membersId must be an array of strings",
	"membersId.len":       "membersId must be an array of strings",
	"from.required":       "from is required",
	"to.required":         "to is required",
}

// respondError writes err as JSON. Client errors carry their message;
// anything else is logged and answered with an opaque 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		c.JSON(appErr.Kind.HTTPStatus(), gin.H{"message": appErr.Message})
		return
	}

	_ = c.Error(err)
	s.logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.RequestIDFromContext(c)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindJSON decodes the request body into req and runs its binding rules.
// On failure it writes a 400 and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
			msgs = append(msgs, msg)
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
	}
	return strings.Join(msgs, "; ")
}
