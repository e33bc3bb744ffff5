// Package service holds the domain services behind the HTTP façade. Errors
// from the stores are returned as they are; the HTTP layer decides how to
// present them.
package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrImportUnavailable = errors.New("spreadsheet import is not configured")
)

var Validate = validator.New(validator.WithRequiredStructEnabled())

// Notifier queues a notification for an owner's configured channels.
type Notifier interface {
	Notify(ctx context.Context, owner, event, subject, body string) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, string, string, string) error { return nil }

// trimStrings trims every string and *string field of the struct v points
// to. Nested values are left alone.
func trimStrings(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch {
		case f.Kind() == reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case f.Kind() == reflect.Pointer && !f.IsNil() && f.Elem().Kind() == reflect.String:
			f.Elem().SetString(strings.TrimSpace(f.Elem().String()))
		}
	}
}
