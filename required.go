package docmap

import "sync/atomic"

// RequiredFieldHook is called for every field bound with [Context.AtRequired]
// while decoding. conditionHolds is false if the field has no value.
type RequiredFieldHook func(conditionHolds bool, message string)

// RequiredFieldError is the panic value of the default RequiredFieldHook.
type RequiredFieldError struct {
	Message string
}

func (e *RequiredFieldError) Error() string {
	return e.Message
}

var requiredFieldHook atomic.Pointer[RequiredFieldHook]

// SetRequiredFieldHook replaces the process wide required field hook and returns
// the previous one. Passing nil restores the default hook, which panics with a
// *RequiredFieldError when a required field is missing.
//
// The hook is meant to be configured once, at program start or in a test
// setup. Swapping it while decodes are running is not supported.
func SetRequiredFieldHook(hook RequiredFieldHook) RequiredFieldHook {
	if hook == nil {
		hook = panicOnMissingField
	}

	previous := requiredFieldHook.Swap(&hook)
	if previous == nil {
		return panicOnMissingField
	}

	return *previous
}

// LogRequiredFields returns a RequiredFieldHook that logs missing fields as
// warnings instead of panicking.
func LogRequiredFields(logger Logger) RequiredFieldHook {
	return func(conditionHolds bool, message string) {
		if !conditionHolds {
			logger.Logf(Warn, "%s", message)
		}
	}
}

func assumeRequired(conditionHolds bool, message string) {
	hook := requiredFieldHook.Load()
	if hook == nil {
		panicOnMissingField(conditionHolds, message)
		return
	}

	(*hook)(conditionHolds, message)
}

func panicOnMissingField(conditionHolds bool, message string) {
	if !conditionHolds {
		panic(&RequiredFieldError{Message: message})
	}
}
