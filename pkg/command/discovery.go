// SPDX-License-Identifier: MPL-2.0

package command

import "fmt"

// maxUnwrapDepth bounds Wrapper chain resolution so a cyclic chain fails
// registry construction instead of spinning.
const maxUnwrapDepth = 32

// discovered holds the extracted metadata for one handler: the
// registration-bearing handler (after unwrapping) and its group spec.
type discovered struct {
	handler Handler
	group   GroupSpec
}

// discover resolves the handler to its registration-bearing implementation
// and extracts its declared group metadata. The caller is expected to have
// already filtered the handler set to command-bearing handlers; a handler
// without a group name is a configuration fault and fails fast.
//
// discover reads metadata only; it never invokes a command callable.
func discover(h Handler) (discovered, error) {
	if h == nil {
		return discovered{}, fmt.Errorf("discover: %w", &MissingGroupError{Handler: "<nil>"})
	}

	inner, err := unwrap(h)
	if err != nil {
		return discovered{}, err
	}

	group := inner.Group()
	if group.Name == "" {
		return discovered{}, &MissingGroupError{Handler: fmt.Sprintf("%T", inner)}
	}

	return discovered{handler: inner, group: group}, nil
}

// unwrap follows Wrapper chains to the innermost handler. Wrappers must not
// shadow the wrapped handler's declarations, so metadata is always read
// from the resolved handler.
func unwrap(h Handler) (Handler, error) {
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		w, ok := h.(Wrapper)
		if !ok {
			return h, nil
		}
		inner := w.Unwrap()
		if inner == nil {
			return nil, fmt.Errorf("handler %T unwraps to nil", h)
		}
		h = inner
	}
	return nil, fmt.Errorf("handler %T: wrapper chain exceeds %d levels", h, maxUnwrapDepth)
}
