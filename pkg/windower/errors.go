// Copyright 2026 The Windrow Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package windower

import "github.com/cockroachdb/errors"

// Marker errors for the two fatal error classes. A failed pass returns
// an error carrying exactly one of these marks, wrapped with the
// identifying window name.
var (
	errConfigMark = errors.New("window configuration error")
	errTypeMark   = errors.New("window type error")
)

// newConfigErrorf reports a malformed window specification. Config
// errors are raised by validation before any row is processed.
func newConfigErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), errConfigMark)
}

// newTypeErrorf reports a function applied to an incompatible field
// type. Type errors surface at the first offending row.
func newTypeErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), errTypeMark)
}

func markTypeError(err error) error {
	return errors.Mark(err, errTypeMark)
}

func markConfigError(err error) error {
	return errors.Mark(err, errConfigMark)
}

// IsConfigError returns true if err reports a malformed window
// specification.
func IsConfigError(err error) bool { return errors.Is(err, errConfigMark) }

// IsTypeError returns true if err reports a function applied to an
// incompatible field type.
func IsTypeError(err error) bool { return errors.Is(err, errTypeMark) }
