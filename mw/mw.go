// Package mw offers generic middleware decorating use case functions
// of the application layer with validation, logging, metrics and traces.
//
// Decorate from the outside in, so that the trace covers everything:
//
//	mw.Traced(tp, mw.Metric(mp, mw.Logged(logger, mw.Validate(nil, useCase))))
package mw

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

type DecoratorFunc[in, out any] interface {
	func(context.Context, in) (out, error)
}

type DecoratorFuncUnary[in any] interface {
	func(context.Context, in) error
}

// commandName extracts a printable name from cmd in the format of: contextName.structName.
//
// The use case function can not be used, as it is anonymous / a closure returned by the use case constructor.
// Accessing the function name with runtime.Caller(4) will always lead to ".func1".
func commandName(cmd any) string {
	pkgPath := reflect.TypeOf(cmd).PkgPath()

	// example: github.com/go-arrower/geogate/contexts/access/internal/application
	// take string after /contexts/ and then take string before /internal/
	pkg0 := strings.Split(pkgPath, "/contexts/")

	hasContext := len(pkg0) == 2 //nolint:mnd
	if hasContext {
		pkg1 := strings.Split(pkg0[1], "/internal/")
		if len(pkg1) == 2 { //nolint:mnd
			context := pkg1[0]

			return context + "." + reflect.TypeOf(cmd).Name()
		}
	}

	// fallback: if the function is not called from a proper Context => packageName.structName
	return fmt.Sprintf("%T", cmd)
}
