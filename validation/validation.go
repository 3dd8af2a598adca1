package validation

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/sitesearch/logger"
)

var (
	ErrInvalidPath    = errors.New("invalid path")
	ErrInvalidBaseURL = errors.New("invalid base url")
)

// customTag is a validation tag registered next to the built-in ones, with
// the error reported when a field fails it.
type customTag struct {
	name  string
	check func(v *Validator, fl validator.FieldLevel) bool
	err   error
}

var customTags = []customTag{
	{name: "valid_path", check: (*Validator).isIndexableDir, err: ErrInvalidPath},
	{name: "valid_base_url", check: (*Validator).isValidBaseURL, err: ErrInvalidBaseURL},
}

type Validator struct {
	validate  *validator.Validate
	logger    logger.Logger
	tagErrors map[string]error
}

func New(logger logger.Logger) (*Validator, error) {
	v := &Validator{
		validate:  validator.New(),
		logger:    logger,
		tagErrors: make(map[string]error, len(customTags)),
	}
	v.validate.RegisterTagNameFunc(jsonFieldName)

	for _, tag := range customTags {
		check := tag.check
		if err := v.validate.RegisterValidation(tag.name, func(fl validator.FieldLevel) bool {
			return check(v, fl)
		}); err != nil {
			logger.Error("failed to register custom validation", "tag", tag.name, "err", err.Error())
			return nil, fmt.Errorf("failed to register %s: %w", tag.name, err)
		}
		v.tagErrors[tag.name] = tag.err
	}

	return v, nil
}

// Validate checks i against its validate tags and reports the first failing
// field as a message fit for an API client.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	v.logger.Warn("validation failed", "err", err.Error())

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	return v.describe(fieldErrs[0])
}

func (v *Validator) describe(fieldErr validator.FieldError) error {
	if err, ok := v.tagErrors[fieldErr.Tag()]; ok {
		return err
	}

	switch fieldErr.Tag() {
	case "required":
		return fmt.Errorf("missing required field '%s'", fieldErr.Field())
	case "min", "max":
		return fmt.Errorf("value or length of field '%s' is not in the expected range", fieldErr.Field())
	}

	return fmt.Errorf("field '%s' failed the '%s' check", fieldErr.Field(), fieldErr.Tag())
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// isIndexableDir accepts an absolute path to an existing directory. An empty
// value is left to the required tag.
func (v *Validator) isIndexableDir(fl validator.FieldLevel) bool {
	dir := fl.Field().String()
	if len(dir) == 0 {
		return true
	}

	if strings.ContainsRune(dir, 0) {
		v.logger.Warn("path has null byte", "path", dir)
		return false
	}

	if !filepath.IsAbs(dir) {
		v.logger.Warn("path is not absolute", "path", dir)
		return false
	}

	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Info("path does not exist", "path", dir)
		return false
	}
	if !info.IsDir() {
		v.logger.Info("path is not a directory", "path", dir)
		return false
	}

	return true
}

// isValidBaseURL accepts any prefix that can be glued in front of a relative
// path: an absolute URL, a relative one such as "./" or nothing at all.
func (v *Validator) isValidBaseURL(fl validator.FieldLevel) bool {
	baseURL := fl.Field().String()
	if len(baseURL) == 0 {
		return true
	}

	if strings.ContainsAny(baseURL, " \t\r\n\x00") {
		v.logger.Warn("base url contains whitespace or a null byte", "base_url", baseURL)
		return false
	}

	if _, err := url.Parse(baseURL); err != nil {
		v.logger.Warn("base url could not be parsed", "base_url", baseURL, "err", err.Error())
		return false
	}

	return true
}
