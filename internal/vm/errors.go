package vm

import (
	"fmt"

	"github.com/quillps/quill/internal/object"
)

// invalidRestoreErr builds the INVALIDRESTORE error for a token that is
// not the top of the calling context's checkpoint stack. This signals a
// nesting bug in the calling engine and is never absorbed silently.
func invalidRestoreErr(c *Context, cp *Checkpoint) *object.Error {
	msg := "restore token is not the innermost checkpoint"
	switch {
	case cp == nil:
		msg = "nil restore token"
	case cp.ctx != c:
		msg = fmt.Sprintf("restore token belongs to context %s", cp.ctx.token)
	case len(c.stack) == 0:
		msg = "no open checkpoint"
	}
	return &object.Error{
		Code:    object.ErrCodeInvalidRestore,
		Op:      "restore",
		Message: msg,
	}
}
