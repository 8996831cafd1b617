package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recipehub/internal/config"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Options are shared by every handler.
type Options struct {
	Log      *slog.Logger
	Timeout  time.Duration
	MediaURL string // prefix for stored image references
	PageSize int
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.PageSize < 1 {
		o.PageSize = config.DefaultPageSize
	}
	return o
}

func (o Options) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), o.Timeout)
}

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// RegisterValidators adds the custom binding rules and reports JSON field names in errors.
// It must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// respondError writes the status code for err's kind. Unclassified errors are logged and
// reported as 500 without details.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var appErr *shared.Error
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message}
		if appErr.Field != "" {
			body["fields"] = gin.H{appErr.Field: appErr.Message}
		}
		switch appErr.Kind {
		case shared.KindValidation:
			c.JSON(http.StatusBadRequest, body)
		case shared.KindConflict:
			c.JSON(http.StatusConflict, body)
		case shared.KindNotFound:
			c.JSON(http.StatusNotFound, body)
		case shared.KindForbidden:
			c.JSON(http.StatusForbidden, body)
		case shared.KindUnauthorized:
			c.JSON(http.StatusUnauthorized, body)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
		return
	}
	log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindError reports a binding failure as field-level validation errors.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(gin.H, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// fieldPath strips the top-level struct name from the namespace, so nested errors read
// like "ingredients[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("ensure this field has at least %s items", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "hexcolor", "len":
		return "enter a color in #RRGGBB format"
	case "slug":
		return "enter a valid slug of letters, numbers, underscores or hyphens"
	case "username":
		return "enter a valid username of letters, digits and @/./+/-/_ only"
	default:
		return "this value is invalid"
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

// parsePage reads page and limit. Missing values fall back to the defaults in Normalize.
func parsePage(c *gin.Context) (service.PageRequest, bool) {
	var page service.PageRequest
	for _, q := range []struct {
		key string
		dst *int
	}{{"page", &page.Page}, {"limit", &page.Limit}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "invalid pagination",
				"fields": gin.H{q.key: "a positive integer is required"},
			})
			return page, false
		}
		*q.dst = n
	}
	return page, true
}

// requestURL reconstructs the absolute URL of the current request for pagination links.
func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	return &u
}

func queryFlag(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
