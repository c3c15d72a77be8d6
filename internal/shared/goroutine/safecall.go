// Package goroutine provides utilities for running code with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"tixport/internal/shared/logger"
)

// SafeCall runs fn synchronously, converting a panic into an error so one
// failing unit of work cannot crash the whole process.
func SafeCall(log logger.Interface, name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("recovered from panic",
				"operation", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("panic in %s: %v", name, r)
		}
	}()
	fn()
	return nil
}
